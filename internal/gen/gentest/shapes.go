// Package gentest holds request shapes together with their checked-in
// generated methods. The gen tests keep reqforge_gen.go in sync with the
// generator, and the tests here assemble both paths side by side.
package gentest

import "github.com/broady/reqforge"

//go:generate go run github.com/broady/reqforge/cmd/reqforge gen

type CreatePost struct {
	_ struct{} `request:"method=POST,path=/users/{id}/posts/{id}"`

	ID    uint64                    `path:"id"`
	Draft reqforge.Optional[bool]   `query:"draft"`
	Page  *int                      `query:"page"`
	Token reqforge.Optional[string] `header:"Authorization" json:"-"`
	Title string                    `json:"title"`
}

type GetTile struct {
	_ struct{} `request:"method=GET,path=/tiles/{z},{x},body=none"`

	Z int `path:"z" json:"-"`
	X int `path:"x" json:"-"`
}

type Login struct {
	_ struct{} `request:"method=POST,path=/login,body=form"`

	Next string `query:"next" json:"-"`
	User string `json:"user"`
	Pass string `json:"pass"`
}
