package model

// Team is a basketball franchise.
type Team struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	City   string `json:"city"`
	Titles int    `json:"titles"`
}

func (t Team) RecordID() int64 { return t.ID }

func (t Team) WithID(id int64) Team {
	t.ID = id
	return t
}

// TeamKind returns the teams collection descriptor with a fresh seed.
func TeamKind() Kind[Team] {
	return Kind[Team]{
		Name:  "teams",
		Label: "Equipo",
		Seed: []Team{
			{ID: 1, Name: "Lakers", City: "Los Angeles", Titles: 17},
			{ID: 2, Name: "Celtics", City: "Boston", Titles: 17},
		},
	}
}
