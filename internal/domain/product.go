package domain

import "time"

type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	BrandID     string    `json:"brand_id" bson:"brand_id"`
	Size        string    `json:"size" bson:"size"`
	Price       int64     `json:"price" bson:"price"`
	Condition   Condition `json:"condition" bson:"condition"`
	Description string    `json:"description" bson:"description"`
	Image       string    `json:"image" bson:"image"`
	Popularity  int       `json:"popularity" bson:"popularity"`
	Stock       int       `json:"stock" bson:"stock"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type Brand struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Logo        string    `json:"logo" bson:"logo"`
	Description string    `json:"description" bson:"description"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type Banner struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Subtitle  string    `json:"subtitle" bson:"subtitle"`
	Image     string    `json:"image" bson:"image"`
	CTA       string    `json:"cta" bson:"cta"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	Order     int       `json:"order" bson:"order"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type User struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	Role      string    `json:"role" bson:"role"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	LastLogin time.Time `json:"last_login" bson:"last_login"`
}

type Setting struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Key         string    `json:"key" bson:"key"`
	Value       string    `json:"value" bson:"value"`
	Description string    `json:"description" bson:"description"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
