package logging

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Output returns stdout alone when filename is empty. Otherwise the log is also appended to filename, which is
// rotated at 50 MB and compressed. Close the returned closer on shutdown.
func Output(stdout io.Writer, filename string) (io.Writer, io.Closer) {
	if filename == "" {
		return stdout, nopCloser{}
	}
	file := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    50, // megabytes
		MaxAge:     0,
		MaxBackups: 0,
		LocalTime:  false,
		Compress:   true,
	}
	return io.MultiWriter(stdout, file), file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
