package handler

type registerForm struct {
	Username        string `form:"username" binding:"required,min=2,max=20,clean"`
	Email           string `form:"email" binding:"required,email,max=120"`
	Password        string `form:"password" binding:"required,password"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
	FirstName       string `form:"first_name" binding:"required,min=2,max=30,clean"`
	LastName        string `form:"last_name" binding:"required,min=2,max=30,clean"`
}

type loginForm struct {
	Login    string `form:"login" binding:"required"`
	Password string `form:"password" binding:"required"`
	Remember bool   `form:"remember"`
}

type resetRequestForm struct {
	Email string `form:"email" binding:"required,email"`
}

type resetPasswordForm struct {
	Password        string `form:"password" binding:"required,password"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

type profileForm struct {
	Username  string `form:"username" binding:"required,min=2,max=20,clean"`
	FirstName string `form:"first_name" binding:"required,min=2,max=30,clean"`
	LastName  string `form:"last_name" binding:"required,min=2,max=30,clean"`
}

type changePasswordForm struct {
	OldPassword     string `form:"old_password" binding:"required"`
	NewPassword     string `form:"new_password" binding:"required,password"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=NewPassword"`
}

type deleteAccountForm struct {
	Password string `form:"password" binding:"required"`
	Code     string `form:"confirmation_code" binding:"required,len=6,numeric"`
}

type confirmPasswordForm struct {
	Password string `form:"password" binding:"required"`
}

type contactForm struct {
	Name    string `form:"name" binding:"required,max=100"`
	Email   string `form:"email" binding:"required,email"`
	Subject string `form:"subject" binding:"required,max=150"`
	Message string `form:"message" binding:"required,max=5000"`
}

type postForm struct {
	Title   string `form:"title" binding:"required,max=100"`
	Content string `form:"content" binding:"required"`
}

type tournamentForm struct {
	Title       string `form:"title" binding:"required,max=120"`
	Description string `form:"description"`
	Location    string `form:"location" binding:"required,max=100"`
	StartDate   string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	MaxPlayers  int    `form:"max_players" binding:"required,gt=0"`
}

type winnerForm struct {
	Placing int  `form:"placing" binding:"required,gte=1"`
	UserID  uint `form:"user_id" binding:"required"`
}
