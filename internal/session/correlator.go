package session

import (
	"fmt"
	"log/slog"
)

// Mode selects the correlation strategy. The two strategies are not meant to
// coexist for the same menu.
type Mode string

const (
	// ModeStore holds correlations in process memory keyed by the menu
	// message; tokens stay compact and consumption is single-use.
	ModeStore Mode = "store"
	// ModeToken embeds the full correlation in the token; no server state,
	// but tokens are bounded and replayable for the life of the menu
	// message.
	ModeToken Mode = "token"
)

// Correlator is the single entry point the bot uses for both strategies.
type Correlator struct {
	mode   Mode
	store  Store
	codec  Codec
	logger *slog.Logger
}

func NewCorrelator(log *slog.Logger, mode Mode, store Store, codec Codec) *Correlator {
	if log == nil {
		log = slog.Default()
	}
	return &Correlator{
		mode:   mode,
		store:  store,
		codec:  codec,
		logger: log.With(slog.String("component", "session")),
	}
}

func (c *Correlator) Mode() Mode { return c.mode }

// Encode produces the selection token for one menu button.
func (c *Correlator) Encode(url, formatID, ext string) (string, error) {
	if c.mode == ModeToken {
		return c.codec.EncodeSelf(url, formatID, ext)
	}
	return c.codec.EncodeStore(formatID)
}

// Open records the menu-message correlation. No-op in token mode, where the
// button itself carries the state.
func (c *Correlator) Open(anchor int64, url string) {
	if c.mode != ModeStore {
		return
	}
	c.store.Open(anchor, url)
	c.logger.Debug("correlation opened", slog.Int64("anchor", anchor))
}

// Resolve turns a selection event back into the full (url, variant) context.
// Store-backed resolution consumes the anchor: a second resolve on the same
// anchor reports ErrCorrelationExpired.
func (c *Correlator) Resolve(anchor int64, token string) (Selection, error) {
	sel, selfContained, err := c.codec.Decode(token)
	if err != nil {
		return Selection{}, err
	}
	if selfContained {
		return sel, nil
	}
	url, err := c.store.Resolve(anchor)
	if err != nil {
		return Selection{}, fmt.Errorf("anchor %d: %w", anchor, err)
	}
	sel.URL = url
	return sel, nil
}

// Invalidate drops any open correlation for the anchor, bounding memory even
// when the menu is answered successfully.
func (c *Correlator) Invalidate(anchor int64) {
	if c.mode != ModeStore {
		return
	}
	c.store.Invalidate(anchor)
}

// OpenCount reports open store-backed correlations (always 0 in token mode).
func (c *Correlator) OpenCount() int {
	if c.mode != ModeStore {
		return 0
	}
	return c.store.Len()
}
