package models

import "time"

// Flash is a one-shot message stored in the session.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// User is the logged in user as shown in the navigation and on the profile page.
type User struct {
	ID                  uint       `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	IsAdmin             bool       `json:"is_admin"`
	EmailVerified       bool       `json:"email_verified"`
	AvatarURL           string     `json:"avatar_url,omitempty"`
	UsernameLastChanged *time.Time `json:"username_last_changed,omitempty"`
}

// Member is the public view of another user.
type Member struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Post is a news post.
type Post struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ImageURL   string    `json:"image_url"`
	DatePosted time.Time `json:"date_posted"`
	Posted     string    `json:"posted"`
	Author     Member    `json:"author"`
}

// Tournament is a tournament card.
type Tournament struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	BannerURL   string  `json:"banner_url"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	StartsIn    string  `json:"starts_in"`
	MaxPlayers  int     `json:"max_players"`
}

// Registration is one entry of a tournament's player list.
type Registration struct {
	Player           Member    `json:"player"`
	RegistrationDate time.Time `json:"registration_date"`
}

// Winner is a recorded placing.
type Winner struct {
	ID      uint   `json:"id"`
	Placing int    `json:"placing"`
	Player  Member `json:"player"`
}

// TournamentDetails is the tournament page.
type TournamentDetails struct {
	Tournament    Tournament     `json:"tournament"`
	Registrations []Registration `json:"registrations"`
	Winners       []Winner       `json:"winners"`
	SlotsLeft     int            `json:"slots_left"`
	Started       bool           `json:"started"`
	IsRegistered  bool           `json:"is_registered"`
}

// Page is one page of a paginated list.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

// AdminUser is a row of the admin user list.
type AdminUser struct {
	Member
	Email         string `json:"email"`
	IsAdmin       bool   `json:"is_admin"`
	EmailVerified bool   `json:"email_verified"`
}
