package model

// InboundEvent is the terse webhook notification sent by Webex when a
// message is created. It carries only the message id; the full message
// must be fetched separately.
type InboundEvent struct {
	Data struct {
		ID    string   `json:"id"`
		Files []string `json:"files"`
	} `json:"data"`
}

// Message is one chat message fetched by id. Immutable once retrieved;
// the unit of work for one dispatch cycle.
type Message struct {
	ID          string   `json:"id"`
	RoomID      string   `json:"roomId"`
	PersonID    string   `json:"personId"`
	PersonEmail string   `json:"personEmail"`
	Text        string   `json:"text"`
	Files       []string `json:"files"`
}

// Webhook is a registered Webex webhook, used only by the bootstrap
// tool.
type Webhook struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TargetURL string `json:"targetUrl"`
	Resource  string `json:"resource"`
	Event     string `json:"event"`
}
