package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	CreatedAt      time.Time
}

type MenuCategory struct {
	ID           uuid.UUID
	Name         string
	NameEn       pgtype.Text
	DisplayOrder int32
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type MenuItem struct {
	ID            uuid.UUID
	CategoryID    pgtype.UUID
	Name          string
	NameEn        pgtype.Text
	Description   pgtype.Text
	DescriptionEn pgtype.Text
	Price         pgtype.Numeric
	ImageUrl      pgtype.Text
	IsAvailable   bool
	IsPopular     bool
	DisplayOrder  int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type BusinessSetting struct {
	ID                uuid.UUID
	Name              string
	Phone             pgtype.Text
	Email             pgtype.Text
	Address           pgtype.Text
	Tagline           pgtype.Text
	Description       pgtype.Text
	GoogleReviewsUrl  pgtype.Text
	GoogleRating      pgtype.Numeric
	GoogleReviewCount pgtype.Int4
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OpeningHour holds the window for one day of week (Sunday = 0).
// open_time/close_time are zero-padded "HH:MM" strings; the availability
// check relies on that format for lexicographic comparison.
type OpeningHour struct {
	ID        uuid.UUID
	DayOfWeek int32
	OpenTime  string
	CloseTime string
	IsClosed  bool
	CreatedAt time.Time
}

type DailyDeal struct {
	ID                 uuid.UUID
	Title              string
	TitleEn            pgtype.Text
	Description        pgtype.Text
	DescriptionEn      pgtype.Text
	DiscountPercentage pgtype.Numeric
	DiscountAmount     pgtype.Numeric
	MenuItemID         pgtype.UUID
	IsActive           bool
	ValidFrom          time.Time
	ValidUntil         pgtype.Timestamptz
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Order struct {
	ID                  uuid.UUID
	CustomerName        string
	CustomerPhone       string
	CustomerEmail       pgtype.Text
	PickupTime          pgtype.Timestamptz
	SpecialInstructions pgtype.Text
	Status              string
	TotalAmount         pgtype.Numeric
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OrderItem snapshots name and unit price at order time. menu_item_id is
// nullable so history survives deletion of the menu item.
type OrderItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	MenuItemID      pgtype.UUID
	ItemName        string
	Quantity        int32
	UnitPrice       pgtype.Numeric
	SpecialRequests pgtype.Text
	CreatedAt       time.Time
}

type GoogleReview struct {
	ID              uuid.UUID
	AuthorName      string
	Rating          int32
	Text            pgtype.Text
	TimeDescription pgtype.Text
	IsVisible       bool
	CreatedAt       time.Time
}
