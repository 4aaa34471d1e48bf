package model

// Question is a single trivia question with its definitive answer
type Question struct {
	ID     string `json:"id"`
	Topic  string `json:"topic"`
	Text   string `json:"text"`
	Answer string `json:"answer"`
}
