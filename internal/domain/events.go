package domain

// Task messages published to the dispatch service, one per delivery.

type TaskAddress struct {
	Name       string `json:"name,omitempty"`
	Number     string `json:"number,omitempty"`
	Street     string `json:"street"`
	Apartment  string `json:"apartment,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
	Unparsed   string `json:"unparsed,omitempty"`
}

type TaskDestination struct {
	Address TaskAddress `json:"address"`
}

type TaskRecipient struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type TaskMetadata struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

type DispatchTask struct {
	Destination    TaskDestination `json:"destination"`
	Recipients     []TaskRecipient `json:"recipients"`
	Notes          string          `json:"notes,omitempty"`
	CompleteAfter  int64           `json:"completeAfter,omitempty"`  // ms epoch
	CompleteBefore int64           `json:"completeBefore,omitempty"` // ms epoch
	Metadata       []TaskMetadata  `json:"metadata"`
}
