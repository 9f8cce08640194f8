package keymap

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/andyrewlee/nimbus/internal/config"
)

// Action identifies a configurable keybinding.
type Action string

const (
	ActionScrollDown Action = "scroll_down"
	ActionScrollUp   Action = "scroll_up"
	ActionPageDown   Action = "page_down"
	ActionPageUp     Action = "page_up"
	ActionTop        Action = "top"
	ActionBottom     Action = "bottom"

	ActionSkipIntro   Action = "skip_intro"
	ActionCopyContact Action = "copy_contact"
	ActionDebug       Action = "debug_overlay"
	ActionQuit        Action = "quit"
)

type bindingDef struct {
	action Action
	keys   []string
	desc   string
}

// KeyMap defines all keybindings for the experience.
type KeyMap struct {
	ScrollDown key.Binding
	ScrollUp   key.Binding
	PageDown   key.Binding
	PageUp     key.Binding
	Top        key.Binding
	Bottom     key.Binding

	SkipIntro   key.Binding
	CopyContact key.Binding
	Debug       key.Binding
	Quit        key.Binding
}

// New builds a keymap from defaults, applying any user overrides.
func New(cfg config.KeyMapConfig) KeyMap {
	return KeyMap{
		ScrollDown: bindingFromDef(cfg, bindingDef{
			action: ActionScrollDown,
			keys:   []string{"j", "down"},
			desc:   "scroll down",
		}),
		ScrollUp: bindingFromDef(cfg, bindingDef{
			action: ActionScrollUp,
			keys:   []string{"k", "up"},
			desc:   "scroll up",
		}),
		PageDown: bindingFromDef(cfg, bindingDef{
			action: ActionPageDown,
			keys:   []string{"pgdown", "space", "f"},
			desc:   "page down",
		}),
		PageUp: bindingFromDef(cfg, bindingDef{
			action: ActionPageUp,
			keys:   []string{"pgup", "b"},
			desc:   "page up",
		}),
		Top: bindingFromDef(cfg, bindingDef{
			action: ActionTop,
			keys:   []string{"home", "g"},
			desc:   "top",
		}),
		Bottom: bindingFromDef(cfg, bindingDef{
			action: ActionBottom,
			keys:   []string{"end", "G"},
			desc:   "bottom",
		}),

		SkipIntro: bindingFromDef(cfg, bindingDef{
			action: ActionSkipIntro,
			keys:   []string{"enter", "s"},
			desc:   "skip intro",
		}),
		CopyContact: bindingFromDef(cfg, bindingDef{
			action: ActionCopyContact,
			keys:   []string{"c"},
			desc:   "copy contact",
		}),
		Debug: bindingFromDef(cfg, bindingDef{
			action: ActionDebug,
			keys:   []string{"alt+d"},
			desc:   "debug overlay",
		}),
		Quit: bindingFromDef(cfg, bindingDef{
			action: ActionQuit,
			keys:   []string{"q", "ctrl+c"},
			desc:   "quit",
		}),
	}
}

func bindingFromDef(cfg config.KeyMapConfig, def bindingDef) key.Binding {
	keys := def.keys
	if override, ok := cfg.BindingFor(string(def.action)); ok && len(override) > 0 {
		keys = override
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), def.desc),
	)
}
