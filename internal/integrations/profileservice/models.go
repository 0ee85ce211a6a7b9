package profileservice

// User модель пользователя из ProfileService
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Beneficiary модель бенефициара (родственника) пользователя
type Beneficiary struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
