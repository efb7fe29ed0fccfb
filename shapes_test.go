package reqforge

// Request shapes shared by the tests in this package.

type createPost struct {
	_ struct{} `request:"method=POST,path=/api/users/{id}/posts"`

	ID              uint64         `json:"id" path:""`
	Draft           Optional[bool] `json:"draft" query:""`
	IncludeComments Optional[bool] `json:"includeComments" query:"include_comments"`
	Page            *int           `json:"page,omitempty" query:"page"`
	Auth            string         `json:"-" header:"Authorization"`
	Title           string         `json:"title" validate:"required"`
	Tags            []string       `json:"tags,omitempty"`
}

type listUsers struct {
	_ struct{} `request:"method=GET,path=/users,body=none"`

	Page Optional[int] `query:"page"`
}

type loginForm struct {
	_ struct{} `request:"method=POST,path=/login,body=form"`

	Username string   `json:"username"`
	Password string   `json:"password"`
	Remember *bool    `json:"remember"`
	Scopes   []string `json:"scopes"`
}

type uploadAvatar struct {
	_ struct{} `request:"method=PUT,path=/users/{user}/avatar,body=multipart"`

	User    string `path:"user" json:"-"`
	Caption string `json:"caption"`
	File    *FileUpload
}

func (u *uploadAvatar) MultipartForm() *MultipartForm {
	form := NewMultipartForm().Text("caption", u.Caption)
	if u.File != nil {
		form.File("file", u.File)
	}
	return form
}

// ping implements the assembly protocol by hand.
type ping struct{}

func (ping) Method() Method   { return MethodGet }
func (ping) Endpoint() string { return "/ping" }
