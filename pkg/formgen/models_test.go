package formgen_test

import (
	"time"

	"github.com/goliatone/go-formdescriptor/pkg/introspect"
	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

type userRole string

func (userRole) FormOptions() []string { return []string{"ADMIN", "USER"} }

type userForm struct {
	Email    string   `json:"email" form:"required,email"`
	Password string   `json:"password" form:"required,prop=type:password"`
	FullName string   `json:"fullName"`
	Role     userRole `json:"role" form:"required,options"`
}

type userRecord struct {
	userForm
	CreatedBy   string    `json:"createdBy"`
	CreatedDate time.Time `json:"createdDate"`
	ModifiedBy  string    `json:"modifiedBy"`
}

type note struct {
	Body string `json:"body" form:"size=:500"`
}

type signup struct {
	Username string  `json:"username" form:"required,notblank,size=3:20"`
	Password string  `json:"password" form:"type=password,createonly"`
	Age      int     `json:"age" form:"min=18,max=99"`
	Score    float64 `json:"score" form:"type=slider"`
	Birthday time.Time
	Active   bool    `json:"active"`
	Nickname *string `json:"nickname"`
	Code     string  `json:"code" pattern:"^[A-Z]{3}$"`
}

func (signup) FormGroups() []schema.Group {
	return []schema.Group{
		{Name: "Account", Properties: []string{"username", "password"}},
		{Name: "Profile", Properties: []string{"age", "birthday"}},
	}
}

func (signup) FormEndpoints() []schema.Endpoint {
	return []schema.Endpoint{{Key: "countries", URL: "/api/countries"}}
}

type auditedNote struct {
	Title     string `json:"title" form:"required"`
	CreatedBy string `json:"createdBy"`
}

type category struct {
	Name     string     `json:"name" form:"required"`
	Children []category `json:"children" form:"children,titlekeys=name"`
}

type orderLine struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity" form:"min=1"`
}

type order struct {
	Reference string      `json:"reference"`
	Lines     []orderLine `json:"lines" form:"children,titlekeys=product|quantity"`
}

type customerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c customerRef) String() string { return c.ID }

type customerFilter struct {
	Name   string `json:"name"`
	Status string `json:"status" form:"options=ACTIVE|BLOCKED"`
}

func (customerFilter) FormEndpoints() []schema.Endpoint {
	return []schema.Endpoint{{Key: "statuses", URL: "/api/statuses"}}
}

type customerView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type invoice struct {
	Customer customerRef `json:"customer" autocomplete:"endpoint=/api/customers;display=name;params=status:active|limit:10;filter=customerFilter"`
	Payer    string      `json:"payer" autocomplete:"endpoint=/api/customers;display=name"`
	Owner    string      `json:"owner" search:"endpoint=/api/customers/search;form=customerFilter;view=customerView"`
}

func newIntrospector() *introspect.Introspector {
	registry := introspect.NewRegistry()
	registry.MustRegister("", customerFilter{})
	registry.MustRegister("", customerView{})
	return introspect.New(introspect.WithRegistry(registry))
}
