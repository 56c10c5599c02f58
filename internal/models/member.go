package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is an employee roster entry. A member with no RelievedDate is
// considered active; imports may only be attributed to active members.
type Member struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone" json:"phone"`
	Email        string             `bson:"email" json:"email"`
	JoiningDate  time.Time          `bson:"joining_date" json:"joiningDate"`
	RelievedDate *time.Time         `bson:"relieved_date,omitempty" json:"relievedDate,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Active reports whether the member is currently employed.
func (m Member) Active() bool {
	return m.RelievedDate == nil
}

// AdminProfile is the administrator's own profile card, upserted by email.
type AdminProfile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Role          string             `bson:"role" json:"role"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	Department    string             `bson:"department,omitempty" json:"department,omitempty"`
	JoiningDate   *time.Time         `bson:"joining_date,omitempty" json:"joiningDate,omitempty"`
	RelievingDate *time.Time         `bson:"relieving_date,omitempty" json:"relievingDate,omitempty"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
	ProfileImage  string             `bson:"profile_image,omitempty" json:"profileImage,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}
