// Package app owns the working session and coordinates the other layers:
// scanning, extraction, document assembly, token counting, persistence.
// State mutations are wholesale replacements behind one mutex; derived
// work (token counts, extraction results) is asynchronous and always
// resolves against the newest state.
package app

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joss/promptdeck/internal/clip"
	"github.com/joss/promptdeck/internal/config"
	"github.com/joss/promptdeck/internal/extract"
	"github.com/joss/promptdeck/internal/fault"
	"github.com/joss/promptdeck/internal/format"
	"github.com/joss/promptdeck/internal/logging"
	"github.com/joss/promptdeck/internal/scan"
	"github.com/joss/promptdeck/internal/session"
	"github.com/joss/promptdeck/internal/store"
	"github.com/joss/promptdeck/internal/tokens"
	"github.com/joss/promptdeck/internal/tree"
	"github.com/joss/promptdeck/internal/unit"
)

// ExtractionResult is delivered to the units listener when an extraction
// run completes and is still current.
type ExtractionResult struct {
	Units []unit.Unit
	Err   error
}

// Options configures a new App. Zero values are usable: no store means no
// persistence of the system prompt, nil settings fall back to defaults.
type Options struct {
	Store    *store.Store
	Fetcher  *extract.Fetcher
	Settings *config.Settings

	// OnTokens receives recomputed token counts.
	OnTokens func(count int)

	// OnUnits receives completed extraction results. Superseded runs are
	// never delivered.
	OnUnits func(ExtractionResult)
}

// App is the orchestrating layer. All exported methods are safe for
// concurrent use.
type App struct {
	mu  sync.Mutex
	log *logging.Logger

	state session.State
	seq   *unit.Sequence

	store    *store.Store
	fetcher  *extract.Fetcher
	settings config.Settings

	onTokens func(int)
	onUnits  func(ExtractionResult)

	extractGen uint64

	tokenTimer  *time.Timer
	promptTimer *time.Timer
	promptDirty bool

	// extractFn is swapped in tests.
	extractFn func(ctx context.Context, cfg extract.Config, path string, f *extract.Fetcher) ([]unit.Unit, error)
}

// New builds an App and loads the persisted system prompt when a store is
// available.
func New(ctx context.Context, opts Options) (*App, error) {
	settings := config.Settings{
		MaxFileBytes:   scan.DefaultMaxBytes,
		DebounceMS:     300,
		TreeDepth:      3,
		TreeEntryLimit: 200,
	}
	if opts.Settings != nil {
		settings = *opts.Settings
	}

	a := &App{
		log:      logging.New("app"),
		seq:      unit.NewSequence(nil),
		store:    opts.Store,
		fetcher:  opts.Fetcher,
		settings: settings,
		onTokens: opts.OnTokens,
		onUnits:  opts.OnUnits,
		state: session.State{
			Mode: session.ModeFolder,
		},
		extractFn: extract.Units,
	}

	if a.store != nil {
		prompt, err := a.store.SystemPrompt(ctx)
		if err != nil {
			return nil, err
		}
		a.state.SystemPrompt = prompt
	}
	return a, nil
}

// Close flushes a pending system prompt save and stops timers.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.tokenTimer != nil {
		a.tokenTimer.Stop()
	}
	if a.promptTimer != nil {
		a.promptTimer.Stop()
	}
	dirty := a.promptDirty
	prompt := a.state.SystemPrompt
	a.promptDirty = false
	a.mu.Unlock()

	if dirty && a.store != nil {
		return a.store.SaveSystemPrompt(ctx, prompt)
	}
	return nil
}

// SetListeners replaces the token and units callbacks. The TUI installs
// its own after the program starts.
func (a *App) SetListeners(onTokens func(int), onUnits func(ExtractionResult)) {
	a.mu.Lock()
	a.onTokens = onTokens
	a.onUnits = onUnits
	a.mu.Unlock()
}

// State returns a copy of the current working session.
func (a *App) State() session.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.state
	s.SelectedFiles = append([]string(nil), a.state.SelectedFiles...)
	return s
}

// ReplaceState installs a whole new working session, typically from a
// loaded session file. The unit sequence is cleared; callers re-extract
// when the state names a unit source.
func (a *App) ReplaceState(s session.State) {
	a.mu.Lock()
	a.state = s
	a.seq = unit.NewSequence(nil)
	a.extractGen++
	a.mu.Unlock()
	a.scheduleTokens()
}

// SetInstructions replaces the prompt instructions.
func (a *App) SetInstructions(text string) {
	a.mu.Lock()
	a.state.Instructions = text
	a.mu.Unlock()
	a.scheduleTokens()
}

// SetSystemPrompt replaces the system instructions and schedules a
// debounced save to the store.
func (a *App) SetSystemPrompt(text string) {
	a.mu.Lock()
	a.state.SystemPrompt = text
	a.promptDirty = true
	a.mu.Unlock()
	a.scheduleTokens()
	a.schedulePromptSave()
}

// SetMode replaces the working mode.
func (a *App) SetMode(m session.Mode) {
	a.mu.Lock()
	a.state.Mode = m
	a.mu.Unlock()
	a.scheduleTokens()
}

// SetRoot replaces the scanned root directory.
func (a *App) SetRoot(root string) {
	a.mu.Lock()
	a.state.Root = root
	a.state.SelectedFiles = nil
	a.mu.Unlock()
	a.scheduleTokens()
}

// SetSelectedFiles replaces the file selection wholesale.
func (a *App) SetSelectedFiles(paths []string) {
	a.mu.Lock()
	a.state.SelectedFiles = append([]string(nil), paths...)
	a.mu.Unlock()
	a.scheduleTokens()
}

// SetIncludeTree toggles the file tree section.
func (a *App) SetIncludeTree(v bool) {
	a.mu.Lock()
	a.state.IncludeTree = v
	a.mu.Unlock()
	a.scheduleTokens()
}

// Units returns the current unit sequence.
func (a *App) Units() *unit.Sequence {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seq
}

// NextUnit advances the cursor and returns the new current unit.
func (a *App) NextUnit() (unit.Unit, bool) {
	a.mu.Lock()
	a.seq.Next()
	u, ok := a.seq.Current()
	a.syncCursorLocked()
	a.mu.Unlock()
	a.scheduleTokens()
	return u, ok
}

// PrevUnit steps the cursor back and returns the new current unit.
func (a *App) PrevUnit() (unit.Unit, bool) {
	a.mu.Lock()
	a.seq.Prev()
	u, ok := a.seq.Current()
	a.syncCursorLocked()
	a.mu.Unlock()
	a.scheduleTokens()
	return u, ok
}

// JumpToUnit moves the cursor to the first unit with the given id. A miss
// leaves the cursor untouched.
func (a *App) JumpToUnit(id string) bool {
	a.mu.Lock()
	_, ok := a.seq.JumpToID(id)
	a.syncCursorLocked()
	a.mu.Unlock()
	if ok {
		a.scheduleTokens()
	}
	return ok
}

func (a *App) syncCursorLocked() {
	a.state.CursorIndex = a.seq.Cursor()
	if u, ok := a.seq.Current(); ok {
		a.state.CursorID = u.ID
	} else {
		a.state.CursorID = ""
	}
}

// StartExtraction launches an extraction run in the background. Only the
// most recently started run may deliver: results from superseded runs are
// discarded without a listener callback.
func (a *App) StartExtraction(ctx context.Context, cfg extract.Config, source string) {
	runID := uuid.NewString()

	a.mu.Lock()
	a.extractGen++
	gen := a.extractGen
	a.state.UnitSource = source
	a.state.Extraction = &cfg
	fn := a.extractFn
	fetcher := a.fetcher
	a.mu.Unlock()

	a.log.Debug("extraction_started", map[string]any{"run": runID, "source": source})

	go func() {
		start := time.Now()
		units, err := fn(ctx, cfg, source, fetcher)
		if err != nil && errors.Is(err, context.Canceled) {
			err = fault.ErrUserCancelled
		}

		a.mu.Lock()
		if gen != a.extractGen {
			a.mu.Unlock()
			a.log.Debug("extraction_superseded", map[string]any{"run": runID, "source": source})
			return
		}
		if fault.IsCancelled(err) {
			a.mu.Unlock()
			a.log.Debug("extraction_cancelled", map[string]any{"run": runID, "source": source})
			return
		}
		if err == nil {
			a.installUnitsLocked(units)
		}
		cb := a.onUnits
		a.mu.Unlock()

		if err != nil {
			a.log.Error("extraction_failed", map[string]any{"run": runID, "source": source}, err)
		} else {
			a.log.TimedEvent("extraction_done", start, map[string]any{
				"run":    runID,
				"source": source,
				"units":  len(units),
			})
			a.scheduleTokens()
		}
		if cb != nil {
			cb(ExtractionResult{Units: units, Err: err})
		}
	}()
}

// RestoreUnits installs an extracted sequence and re-targets the saved
// cursor: by id first, else by clamped index.
func (a *App) RestoreUnits(units []unit.Unit) {
	a.mu.Lock()
	a.extractGen++
	a.installUnitsLocked(units)
	a.mu.Unlock()
	a.scheduleTokens()
}

func (a *App) installUnitsLocked(units []unit.Unit) {
	a.seq = unit.NewSequence(units)
	if a.state.CursorID != "" {
		if _, ok := a.seq.JumpToID(a.state.CursorID); ok {
			a.syncCursorLocked()
			return
		}
	}
	a.seq.SetCursor(a.state.CursorIndex)
	a.syncCursorLocked()
}

// Document assembles the full Markdown document from the current state.
func (a *App) Document() (string, error) {
	a.mu.Lock()
	state := a.state
	selected := append([]string(nil), a.state.SelectedFiles...)
	var current *unit.Unit
	if u, ok := a.seq.Current(); ok {
		current = &u
	}
	maxBytes := int(a.settings.MaxFileBytes)
	depth := a.settings.TreeDepth
	entryLimit := a.settings.TreeEntryLimit
	a.mu.Unlock()

	in := format.Input{
		SystemPrompt: state.SystemPrompt,
		Instructions: state.Instructions,
		Mode:         format.Mode(state.Mode),
		Unit:         current,
		IncludeTree:  state.IncludeTree,
	}

	if state.Mode == session.ModeFolder && len(selected) > 0 {
		texts, err := scan.ReadFilesAsText(selected, maxBytes)
		if err != nil {
			return "", err
		}
		for _, ft := range texts {
			in.Files = append(in.Files, format.File{Path: ft.Path, Content: ft.Text})
		}
	}

	if state.IncludeTree && state.Root != "" {
		root, err := scan.Directory(state.Root)
		if err != nil {
			return "", err
		}
		in.Tree = tree.RenderASCII(root, tree.RenderOptions{
			DepthLimit:   depth,
			EntryLimit:   entryLimit,
			ShowRootPath: true,
		})
	}

	return format.Render(in), nil
}

// CopyDocument assembles the document, counts its tokens, and writes it to
// the system clipboard.
func (a *App) CopyDocument() (count int, err error) {
	doc, err := a.Document()
	if err != nil {
		return 0, err
	}
	count = tokens.Count(doc)
	if err := clip.Write(doc); err != nil {
		return 0, err
	}

	a.mu.Lock()
	a.state.TokenCount = count
	a.mu.Unlock()
	return count, nil
}

// RecomputeTokens counts the current document immediately, bypassing the
// debounce.
func (a *App) RecomputeTokens() (int, error) {
	doc, err := a.Document()
	if err != nil {
		return 0, err
	}
	count := tokens.Count(doc)

	a.mu.Lock()
	a.state.TokenCount = count
	cb := a.onTokens
	a.mu.Unlock()

	if cb != nil {
		cb(count)
	}
	return count, nil
}

// scheduleTokens (re)arms the debounce timer. The count always computes
// from the state at fire time, so a burst of edits costs one recount.
func (a *App) scheduleTokens() {
	a.mu.Lock()
	d := time.Duration(a.settings.DebounceMS) * time.Millisecond
	if a.tokenTimer != nil {
		a.tokenTimer.Stop()
	}
	a.tokenTimer = time.AfterFunc(d, func() {
		if _, err := a.RecomputeTokens(); err != nil {
			a.log.Warn("token_recount_failed", nil, err)
		}
	})
	a.mu.Unlock()
}

// schedulePromptSave debounces the system prompt upsert.
func (a *App) schedulePromptSave() {
	if a.store == nil {
		return
	}
	a.mu.Lock()
	d := time.Duration(a.settings.DebounceMS) * time.Millisecond
	if a.promptTimer != nil {
		a.promptTimer.Stop()
	}
	a.promptTimer = time.AfterFunc(d, func() {
		a.mu.Lock()
		prompt := a.state.SystemPrompt
		a.promptDirty = false
		a.mu.Unlock()

		if err := a.store.SaveSystemPrompt(context.Background(), prompt); err != nil {
			a.log.Warn("system_prompt_save_failed", nil, err)
		}
	})
	a.mu.Unlock()
}

// SaveSessionFile writes the current state as a portable session file.
func (a *App) SaveSessionFile(path string) error {
	f := session.ToPortable(a.State())
	data, err := session.Encode(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.NewSourceError(path, err)
	}
	a.log.Info("session_saved", map[string]any{"path": path})
	return nil
}

// LoadSessionFile validates a session file and installs it wholesale
// against the given root. Any validation failure rejects the whole file
// and leaves the current state untouched.
func (a *App) LoadSessionFile(path, root string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fault.NewSourceError(path, err)
	}
	f, err := session.Validate(raw)
	if err != nil {
		return err
	}
	a.ReplaceState(session.FromPortable(root, f))
	a.log.Info("session_loaded", map[string]any{"path": path, "root": root})
	return nil
}

// SnapshotSession stores the current session in the snapshot history.
func (a *App) SnapshotSession(ctx context.Context, name string) (string, error) {
	if a.store == nil {
		return "", store.ErrClosed
	}
	data, err := session.Encode(session.ToPortable(a.State()))
	if err != nil {
		return "", err
	}
	return a.store.SaveSnapshot(ctx, name, data)
}
