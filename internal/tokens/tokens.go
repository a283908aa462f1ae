// Package tokens provides token counting using tiktoken-go.
// Counts are always taken over the literal document string that gets copied
// or exported, so the displayed number matches the exported bytes.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens with the cl100k_base encoding. The encoding loads
// lazily on first use; load failures degrade to a rough estimate instead of
// erroring, so a count can never block or corrupt the display.
type Counter struct {
	enc  *tiktoken.Tiktoken
	once sync.Once
	err  error
}

var defaultCounter = &Counter{}

// Count returns the number of tokens in text.
func Count(text string) int {
	return defaultCounter.Count(text)
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	c.init()
	if c.err != nil || c.enc == nil {
		// Fallback: rough estimate (4 chars per token)
		return len(text) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}

func (c *Counter) init() {
	c.once.Do(func() {
		c.enc, c.err = tiktoken.GetEncoding("cl100k_base")
	})
}
