package student

type Student struct {
	ID            string `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Grade         string `json:"grade" db:"grade"`
	Memo          string `json:"memo" db:"memo"`
	DriveFolderID string `json:"driveFolderId" db:"drive_folder_id"`
}

type Guardian struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Relationship string `json:"relationship" db:"relationship"`
	Email        string `json:"email" db:"email"`
}
