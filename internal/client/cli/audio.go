package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/vocabkeeper/internal/filex"
	"github.com/dmitrijs2005/vocabkeeper/internal/netx"
)

// audioDir is where fetched pronunciations are saved, relative to the
// working directory.
const audioDir = "audio"

// maxAudioSize bounds uploads.
const maxAudioSize = 20 << 20

// UploadAudio attaches a local audio file to an entry: audio <id> <file>.
func (a *App) UploadAudio(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: audio <id> <file>")
		return fmt.Errorf("missing arguments")
	}
	id, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if fi.Size() > maxAudioSize {
		fmt.Fprintf(a.out, "File too large (max %d MiB)\n", maxAudioSize>>20)
		return fmt.Errorf("file too large: %d bytes", fi.Size())
	}

	url, err := a.api.AudioUploadURL(ctx, id)
	if err != nil {
		a.report(err)
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if err := netx.UploadToPresignedURL(ctx, a.transfer, url, contentType, f, fi.Size()); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Audio uploaded")
	return nil
}

// FetchAudio downloads an entry's audio into ./audio/<id>: fetch <id>.
func (a *App) FetchAudio(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}

	url, err := a.api.AudioDownloadURL(ctx, id)
	if err != nil {
		a.report(err)
		return err
	}

	dir, err := filex.EnsureSubDir(audioDir)
	if err != nil {
		return err
	}

	path, err := filex.WriteAtomic(dir, filepath.Base(id), func(w io.Writer) error {
		_, err := netx.DownloadFromPresignedURL(ctx, a.transfer, url, w)
		return err
	})
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}
