package entity

import "time"

const Domain = "line_bot"

// ConfigEntry is the persisted integration configuration.
type ConfigEntry struct {
	Domain         string    `json:"domain" bson:"domain"`
	AccessToken    string    `json:"access_token" bson:"access_token"`
	ChannelSecret  string    `json:"channel_secret" bson:"channel_secret"`
	AllowedChatIDs AllowList `json:"allowed_chat_ids" bson:"allowed_chat_ids"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

func NewConfigEntry(accessToken, channelSecret string) *ConfigEntry {
	return &ConfigEntry{
		Domain:         Domain,
		AccessToken:    accessToken,
		ChannelSecret:  channelSecret,
		AllowedChatIDs: AllowList{},
	}
}

func (e *ConfigEntry) Configured() bool {
	return e != nil && e.ChannelSecret != ""
}

// Copy returns a deep copy so a mutation can be saved before it is published.
func (e *ConfigEntry) Copy() *ConfigEntry {
	c := *e
	c.AllowedChatIDs = e.AllowedChatIDs.Clone()
	return &c
}
