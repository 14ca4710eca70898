package entity

import "sort"

// AllowedChat is the persisted value of an allow-list entry.
type AllowedChat struct {
	ChatID string `json:"chat_id" bson:"chat_id"`
}

// AllowList maps a user-chosen display name to a LINE chat.
type AllowList map[string]AllowedChat

// ChatEntry is a flattened allow-list entry.
type ChatEntry struct {
	DisplayName string `json:"display_name"`
	ChatID      string `json:"chat_id"`
}

func (a AllowList) Contains(chatID string) bool {
	if chatID == "" {
		return false
	}
	for _, chat := range a {
		if chat.ChatID == chatID {
			return true
		}
	}
	return false
}

func (a AllowList) Resolve(name string) (string, bool) {
	chat, ok := a[name]
	if !ok || chat.ChatID == "" {
		return "", false
	}
	return chat.ChatID, true
}

func (a AllowList) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a AllowList) Entries() []ChatEntry {
	entries := make([]ChatEntry, 0, len(a))
	for _, name := range a.Names() {
		entries = append(entries, ChatEntry{DisplayName: name, ChatID: a[name].ChatID})
	}
	return entries
}

func (a AllowList) Clone() AllowList {
	c := make(AllowList, len(a))
	for name, chat := range a {
		c[name] = chat
	}
	return c
}

// Without returns a copy with the named entries removed. Unknown names are ignored.
func (a AllowList) Without(names []string) AllowList {
	c := a.Clone()
	for _, name := range names {
		delete(c, name)
	}
	return c
}
