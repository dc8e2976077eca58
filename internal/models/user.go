package models

// User represents a registered trader. Cash is stored in cents and is
// only mutated through guarded updates so it can never go negative.
type User struct {
	Base
	Username    string       `gorm:"uniqueIndex;not null" json:"username"`
	Password    string       `gorm:"not null" json:"-"`
	Cash        int64        `gorm:"type:bigint;not null;default:0" json:"cash"`
	Positions   []Position   `gorm:"foreignKey:UserID" json:"positions,omitempty"`
	SoldRecords []SoldRecord `gorm:"foreignKey:UserID" json:"sold_records,omitempty"`
}
