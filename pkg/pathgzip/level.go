package pathgzip

import (
	"fmt"

	kgzip "github.com/klauspost/compress/gzip"

	"github.com/paulschiretz/pgl-gzstatic/pkg/util"
)

// Level represents the desired trade-off between speed and size of the
// builtin compressor. External compressors carry their level in their own
// fixed arguments (e.g. "gzip -kf9") and ignore this.
type Level string

const (
	Default Level = "default"
	Fastest Level = "fastest"
	Better  Level = "better"
	Best    Level = "best"
)

var levelToString = map[Level]string{
	Default: "default",
	Fastest: "fastest",
	Better:  "better",
	Best:    "best",
}

var stringToLevel map[string]Level

func init() {
	stringToLevel = util.InvertMap(levelToString)
}

func (l Level) String() string {
	if str, ok := levelToString[l]; ok {
		return str
	}
	return string(Default)
}

// ParseLevel parses a string into a compression Level.
// It defaults to default level if the string is empty.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return Default, nil
	}
	if l, ok := stringToLevel[s]; ok {
		return l, nil
	}
	return "", fmt.Errorf("invalid compression level: %q. Must be 'default', 'fastest', 'better', or 'best'", s)
}

// gzipLevel maps a Level to the numeric gzip level shared by
// klauspost/compress/gzip and klauspost/pgzip.
func gzipLevel(l Level) int {
	switch l {
	case Fastest:
		return kgzip.BestSpeed
	case Better:
		return 7
	case Best:
		return kgzip.BestCompression
	default:
		return kgzip.DefaultCompression
	}
}
