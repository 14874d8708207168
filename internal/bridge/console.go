package bridge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsoleSpeech is a SpeechPort over plain text streams: say prints,
// listen reads one line. The REPL uses it so listen() is interactive even
// with no gateway configured.
type ConsoleSpeech struct {
	Out io.Writer
	In  io.Reader

	reader *bufio.Reader
}

func (c *ConsoleSpeech) Say(ctx context.Context, req SpeechRequest) error {
	if req.Emotion != "" {
		_, err := fmt.Fprintf(c.Out, "(%s) %s\n", req.Emotion, req.Text)
		return err
	}
	_, err := fmt.Fprintln(c.Out, req.Text)
	return err
}

// Listen reads one line from In. End of input is an empty utterance, not
// an error, matching the interpreter's own listen fallback.
func (c *ConsoleSpeech) Listen(ctx context.Context, req ListenRequest) (string, error) {
	if c.In == nil {
		return "", nil
	}
	if c.reader == nil {
		c.reader = bufio.NewReader(c.In)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}
	return strings.TrimRight(line, "\r\n"), nil
}
