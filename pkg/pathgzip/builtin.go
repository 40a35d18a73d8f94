package pathgzip

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	kgzip "github.com/klauspost/compress/gzip"
	"github.com/klauspost/pgzip"

	"github.com/paulschiretz/pgl-gzstatic/pkg/util"
)

// builtinParallelThreshold selects between the single-goroutine gzip writer
// and pgzip. Below roughly 1MB the blocking/parallelism overhead of pgzip is
// not worth it.
const builtinParallelThreshold = 1 << 20

// gzipWriteCloser is satisfied by both klauspost/compress/gzip.Writer and
// pgzip.Writer.
type gzipWriteCloser interface {
	io.WriteCloser
}

// compressBuiltin produces the compressed sibling in-process. The sibling is
// written directly (the caller has already removed any stale one); on any
// failure the partial file is removed so a later run sees a missing sibling
// and retries.
func (g *PathGzipper) compressBuiltin(ctx context.Context, absPath string, srcInfo os.FileInfo, level Level) (err error) {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	absGzPath := CompressedPath(absPath)

	src, err := os.Open(absPath)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", absPath, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(absGzPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, util.UserWritableFilePerms)
	if err != nil {
		return fmt.Errorf("failed to create compressed file %s: %w", absGzPath, err)
	}

	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close compressed file %s: %w", absGzPath, closeErr)
		}
		if err != nil {
			os.Remove(absGzPath)
		}
	}()

	var zw gzipWriteCloser
	if srcInfo.Size() >= builtinParallelThreshold {
		w, werr := pgzip.NewWriterLevel(dst, gzipLevel(level))
		if werr != nil {
			return fmt.Errorf("failed to create gzip writer: %w", werr)
		}
		w.Name = filepath.Base(absPath)
		w.ModTime = srcInfo.ModTime()
		zw = w
	} else {
		w, werr := kgzip.NewWriterLevel(dst, gzipLevel(level))
		if werr != nil {
			return fmt.Errorf("failed to create gzip writer: %w", werr)
		}
		w.Name = filepath.Base(absPath)
		w.ModTime = srcInfo.ModTime()
		zw = w
	}

	bufPtr := g.bufferPool.Get()
	defer g.bufferPool.Put(bufPtr)

	if _, err = io.CopyBuffer(zw, src, *bufPtr); err != nil {
		zw.Close()
		return fmt.Errorf("failed to compress %s: %w", absPath, err)
	}
	// Close flushes the gzip footer; an error here means a corrupt sibling.
	if err = zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize compressed file %s: %w", absGzPath, err)
	}
	return nil
}
