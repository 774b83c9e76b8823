package command

import (
	"context"
	"strings"

	"gsa/internal/gmp/model"
	"gsa/internal/gmp/transport"
)

// Setting is a user setting.
type Setting struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
	Value   string `json:"value"`
}

// Settings maps setting names, lowercased, to the user's settings.
type Settings map[string]Setting

// Get returns the setting called name.
func (s Settings) Get(name string) (Setting, bool) {
	v, ok := s[strings.ToLower(name)]
	return v, ok
}

// Well known setting ids.
const (
	SettingRowsPerPage   = "5f5a8712-8017-11e1-8556-406186ea4fc5"
	SettingDetailsExport = "a6ac88c5-729c-41ba-ac0a-deea4a3441f2"
	SettingListExport    = "a6ac88c5-729c-41ba-ac0a-deea4a3441f3"
)

// UserCommand runs the user commands and the commands about the session user.
type UserCommand struct {
	*EntityCommand[model.User]
}

// NewUserCommand returns the user commands.
func NewUserCommand(s Sender) *UserCommand {
	return &UserCommand{NewEntityCommand(s, userResource, model.NewUserFromElement)}
}

// CurrentSettings returns the settings of the session user.
func (c *UserCommand) CurrentSettings(ctx context.Context) (Settings, error) {
	resp, err := c.sender.Get(ctx, transport.NewParams("get_my_settings"))
	if err != nil {
		return nil, err
	}
	out := Settings{}
	for _, el := range resp.Data.ChildrenNamed("setting") {
		s := Setting{
			ID:      el.Attr("id"),
			Name:    el.ChildText("name"),
			Comment: el.ChildText("comment"),
			Value:   el.ChildText("value"),
		}
		out[strings.ToLower(s.Name)] = s
	}
	return out, nil
}

// SaveSetting changes one setting of the session user.
func (c *UserCommand) SaveSetting(ctx context.Context, id, value string) error {
	p := transport.NewParams("save_setting").
		Set("setting_id", id).
		Set("setting_value", value)
	_, err := c.sender.Post(ctx, p)
	return err
}

// Capabilities returns the commands the session user may run.
func (c *UserCommand) Capabilities(ctx context.Context) (model.Capabilities, error) {
	resp, err := c.sender.Get(ctx, transport.NewParams("get_capabilities"))
	if err != nil {
		return model.Capabilities{}, err
	}
	var names []string
	for _, cmd := range resp.Data.Child("schema").ChildrenNamed("command") {
		names = append(names, cmd.ChildText("name"))
	}
	return model.NewCapabilities(names), nil
}
