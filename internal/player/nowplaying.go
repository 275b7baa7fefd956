package player

import (
	"fmt"
	"sync"

	"github.com/cratefm/crate/internal/store"
)

// State is a snapshot of the player bar.
type State struct {
	Open    bool
	Playing bool
	Current *store.Item
}

// Listener receives a state snapshot after every change.
type Listener func(State)

// NowPlaying tracks the currently playing item and drives a [Widget].
//
// Widget events feed the playing flag back so external pause/finish stays in
// sync with the controls.
type NowPlaying struct {
	mu       sync.Mutex
	widget   Widget
	current  *store.Item
	open     bool
	playing  bool
	listener Listener
}

// NewNowPlaying creates a controller bound to a widget. The widget's play,
// pause and finish events are wired immediately.
func NewNowPlaying(widget Widget, listener Listener) *NowPlaying {
	np := &NowPlaying{widget: widget, listener: listener}
	if widget != nil {
		widget.Bind(EventPlay, func() { np.setPlaying(true) })
		widget.Bind(EventPause, func() { np.setPlaying(false) })
		widget.Bind(EventFinish, func() { np.setPlaying(false) })
	}
	return np
}

// Play opens the bar on an item, loads the widget and starts playback.
// Video items have no widget permalink to load; they only set the current
// item, the embed URL is the caller's concern.
func (np *NowPlaying) Play(item store.Item) error {
	np.mu.Lock()

	np.current = &item
	np.open = true

	if item.Kind == store.KindVideo || np.widget == nil {
		np.playing = true
		np.notifyAndUnlock()
		return nil
	}

	if item.URL == "" {
		np.playing = false
		np.notifyAndUnlock()
		return fmt.Errorf("item %s has no permalink to load", item.ID)
	}

	widget := np.widget
	np.playing = true
	np.notifyAndUnlock()

	return widget.Load(item.URL, DefaultLoadOptions())
}

// Toggle flips between play and pause for the current item.
func (np *NowPlaying) Toggle() error {
	np.mu.Lock()
	if !np.open || np.current == nil {
		np.mu.Unlock()
		return nil
	}

	widget := np.widget
	playing := np.playing
	np.playing = !playing
	np.notifyAndUnlock()

	if widget == nil {
		return nil
	}
	if playing {
		return widget.Pause()
	}
	return widget.Play()
}

// Close pauses the widget and closes the bar.
func (np *NowPlaying) Close() error {
	np.mu.Lock()
	widget := np.widget
	wasPlaying := np.playing

	np.open = false
	np.playing = false
	np.current = nil
	np.notifyAndUnlock()

	if widget != nil && wasPlaying {
		return widget.Pause()
	}
	return nil
}

// State returns the current snapshot.
func (np *NowPlaying) State() State {
	np.mu.Lock()
	defer np.mu.Unlock()
	return np.snapshot()
}

func (np *NowPlaying) setPlaying(playing bool) {
	np.mu.Lock()
	if np.playing == playing {
		np.mu.Unlock()
		return
	}
	np.playing = playing
	np.notifyAndUnlock()
}

func (np *NowPlaying) snapshot() State {
	state := State{Open: np.open, Playing: np.playing}
	if np.current != nil {
		item := *np.current
		state.Current = &item
	}
	return state
}

// notifyAndUnlock snapshots state, releases the lock, then invokes the
// listener so a listener can call back into the controller.
func (np *NowPlaying) notifyAndUnlock() {
	state := np.snapshot()
	listener := np.listener
	np.mu.Unlock()

	if listener != nil {
		listener(state)
	}
}
