// Package schemas содержит схемы тел запросов API.
//
// Строковые поля обязаны присутствовать, но пустая строка допустима.
package schemas

import "github.com/magabrotheeeer/blog-api/internal/lib/schema"

// Address — адрес пользователя.
var Address = &schema.Schema{
	Name: "address",
	Fields: []schema.Field{
		{Name: "street", Kind: schema.String},
		{Name: "city", Kind: schema.String},
	},
}

// User — тело регистрации.
var User = &schema.Schema{
	Name: "user",
	Fields: []schema.Field{
		{Name: "name", Kind: schema.String},
		{Name: "email", Kind: schema.String, Rules: "email"},
		{Name: "password", Kind: schema.String, Rules: "max=72"},
		{Name: "address", Kind: schema.Object, Optional: true, Nested: Address},
	},
}

// Login — тело входа.
var Login = &schema.Schema{
	Name: "login",
	Fields: []schema.Field{
		{Name: "email", Kind: schema.String},
		{Name: "password", Kind: schema.String},
	},
}

// Post — тело создания и обновления поста.
var Post = &schema.Schema{
	Name: "post",
	Fields: []schema.Field{
		{Name: "title", Kind: schema.String},
		{Name: "content", Kind: schema.String},
	},
}
