package config

import "fmt"

// ActionType discriminates what a button does when pressed.
type ActionType string

const (
	ActionSend         ActionType = "send"
	ActionCtrlModifier ActionType = "ctrl-modifier"
	ActionPaste        ActionType = "paste"
	ActionDrawerToggle ActionType = "drawer-toggle"
	ActionDrawerOpen   ActionType = "drawer-open"
)

// Action is a tagged variant: Data is only meaningful for send, ContextID only
// for drawer-open.
type Action struct {
	Type      ActionType `yaml:"type" json:"type"`
	Data      string     `yaml:"data,omitempty" json:"data,omitempty"`
	ContextID string     `yaml:"context_id,omitempty" json:"contextId,omitempty"`
}

// Send returns a send action.
func Send(data string) Action { return Action{Type: ActionSend, Data: data} }

// OpenDrawer returns a drawer-open action targeting a context.
func OpenDrawer(contextID string) Action { return Action{Type: ActionDrawerOpen, ContextID: contextID} }

// Button is a toolbar or floating button.
type Button struct {
	ID          string `yaml:"id,omitempty" json:"id,omitempty"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Action      Action `yaml:"action" json:"action"`
}

func (a Action) validate(contexts map[string]bool) error {
	switch a.Type {
	case ActionSend:
		if a.Data == "" {
			return fmt.Errorf("send action needs data")
		}
	case ActionCtrlModifier, ActionPaste, ActionDrawerToggle:
	case ActionDrawerOpen:
		if !contexts[a.ContextID] {
			return fmt.Errorf("drawer-open targets unknown context %q", a.ContextID)
		}
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}

func validateButtons(where string, buttons []Button, contexts map[string]bool) error {
	for i, b := range buttons {
		if b.Label == "" {
			return fmt.Errorf("%s[%d]: label is required", where, i)
		}
		if err := b.Action.validate(contexts); err != nil {
			return fmt.Errorf("%s[%d] (%s): %w", where, i, b.Label, err)
		}
	}
	return nil
}
