package models

// Form is a questionnaire template looked up by option before an AI report is generated.
type Form struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Option    string     `gorm:"column:option_name;size:50;not null;index" json:"option"`
	Questions StringList `gorm:"type:text" json:"questions"`
}
