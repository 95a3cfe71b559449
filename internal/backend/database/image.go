package database

type ImageRecord struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Data        []byte `db:"data"` // raw upload bytes, never modified
	ContentType string `db:"content_type"`
}
