package schedules

// Schedule is one calendar entry owned by UserID. Date is free-form text.
type Schedule struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
}

func (s Schedule) GetID() int { return s.ID }
