package introspect

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

type role string

func (role) FormOptions() []string { return []string{"ADMIN", "USER"} }

type audited struct {
	CreatedDate time.Time `json:"createdDate"`
	CreatedBy   string    `json:"createdBy"`
}

type account struct {
	audited
	FullName string  `form:"required,size=2:40" pattern:"^[A-Za-z ]+$"`
	Email    string  `json:"email" form:"required,email"`
	Password string  `form:"type=password,prop=autocomplete:off,prop=spellcheck:false,createonly"`
	Age      *int    `form:"min=18,max=120"`
	Role     role    `form:"options"`
	Plan     string  `form:"options=FREE|PRO"`
	Active   bool    `json:"active,omitempty"`
	Balance  float64 `json:"-"`
	internal string
}

func (account) FormGroups() []schema.Group {
	return []schema.Group{{Name: "Identity", Properties: []string{"fullName", "email"}}}
}

func (account) FormEndpoints() []schema.Endpoint {
	return []schema.Endpoint{{Key: "roles", URL: "/api/roles"}}
}

type node struct {
	Label    string `form:"required"`
	Children []node `form:"children,titlekeys=label"`
}

type customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type customerFilter struct {
	Name string `json:"name"`
}

type order struct {
	Customer string `form:"required" autocomplete:"endpoint=/api/customers;display=name;params=status:active|limit:10;filter=customerFilter"`
	Owner    string `search:"endpoint=/api/customers/search;form=customerFilter;view=customer"`
}

type namespaced struct {
	Title string
}

func (namespaced) FormNamespace() string { return "catalog" }

func TestModelOfCapturesFieldsInDeclarationOrder(t *testing.T) {
	model, err := New().ModelOf(account{})
	if err != nil {
		t.Fatalf("model of: %v", err)
	}

	var names []string
	for _, field := range model.Fields {
		names = append(names, field.Name)
	}
	want := []string{"createdDate", "createdBy", "fullName", "email", "password", "age", "role", "plan", "active"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}
	if model.Name != "account" || model.Namespace != "introspect" {
		t.Fatalf("unexpected identity %q / %q", model.Name, model.Namespace)
	}
	if model.Qualified() != "introspect.account" {
		t.Fatalf("unexpected qualified name %q", model.Qualified())
	}
}

func TestModelOfConvertsTags(t *testing.T) {
	model, err := New().ModelOf(&account{})
	if err != nil {
		t.Fatalf("model of: %v", err)
	}

	cases := map[string][]schema.Tag{
		"fullName": {schema.Required{}, schema.Size{Min: 2, Max: 40}, schema.Pattern{Regexp: "^[A-Za-z ]+$"}},
		"email":    {schema.Required{}, schema.Email{}},
		"password": {
			schema.TypeOverride{Type: "password"},
			schema.Properties{Items: []schema.Property{{Name: "autocomplete", Value: "off"}, {Name: "spellcheck", Value: "false"}}},
			schema.CreateOnly{},
		},
		"age":  {schema.Min{Value: 18}, schema.Max{Value: 120}},
		"role": {schema.EnumOptions{Enum: schema.Enum{QualifiedName: "introspect.role", Constants: []string{"ADMIN", "USER"}}}},
		"plan": {schema.EnumOptions{Enum: schema.Enum{QualifiedName: "introspect.account.plan", Constants: []string{"FREE", "PRO"}}}},
	}
	for name, want := range cases {
		field, ok := model.Field(name)
		if !ok {
			t.Fatalf("field %q missing", name)
		}
		if diff := cmp.Diff(want, field.Tags); diff != "" {
			t.Fatalf("%s tags mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestModelOfInfersKinds(t *testing.T) {
	model, err := New().ModelOf(account{})
	if err != nil {
		t.Fatalf("model of: %v", err)
	}
	want := map[string]schema.Kind{
		"createdDate": schema.KindTemporal,
		"fullName":    schema.KindString,
		"age":         schema.KindInteger,
		"role":        schema.KindEnum,
		"active":      schema.KindBoolean,
	}
	for name, kind := range want {
		field, _ := model.Field(name)
		if field.Kind != kind {
			t.Fatalf("%s: expected kind %s, got %s", name, kind, field.Kind)
		}
	}
}

func TestModelOfReadsClassLevelMetadata(t *testing.T) {
	model, err := New().ModelOf(account{})
	if err != nil {
		t.Fatalf("model of: %v", err)
	}
	if diff := cmp.Diff([]schema.Group{{Name: "Identity", Properties: []string{"fullName", "email"}}}, model.Groups); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]schema.Endpoint{{Key: "roles", URL: "/api/roles"}}, model.Endpoints); diff != "" {
		t.Fatalf("endpoints mismatch (-want +got):\n%s", diff)
	}

	ns, err := New().ModelOf(namespaced{})
	if err != nil {
		t.Fatalf("model of: %v", err)
	}
	if ns.Qualified() != "catalog.namespaced" {
		t.Fatalf("expected namespace override, got %q", ns.Qualified())
	}
}

func TestModelOfResolvesSelfReferencingChildren(t *testing.T) {
	model, err := New().ModelOf(node{})
	if err != nil {
		t.Fatalf("model of: %v", err)
	}
	field, ok := model.Field("children")
	if !ok {
		t.Fatalf("children field missing")
	}
	children, ok := field.Tags[0].(schema.Children)
	if !ok {
		t.Fatalf("expected children tag, got %T", field.Tags[0])
	}
	if children.Model != model {
		t.Fatalf("expected self-reference to reuse the cached model")
	}
	if diff := cmp.Diff([]string{"label"}, children.TitleKeys); diff != "" {
		t.Fatalf("title keys mismatch (-want +got):\n%s", diff)
	}
}

func TestModelOfResolvesNamedReferences(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister("", customer{})
	registry.MustRegister("", customerFilter{})
	in := New(WithRegistry(registry))

	model, err := in.ModelOf(order{})
	if err != nil {
		t.Fatalf("model of: %v", err)
	}

	customerField, _ := model.Field("customer")
	auto, ok := customerField.Tags[1].(schema.Autocomplete)
	if !ok {
		t.Fatalf("expected autocomplete tag, got %T", customerField.Tags[1])
	}
	if auto.Endpoint != "/api/customers" || auto.DisplayField != "name" {
		t.Fatalf("unexpected autocomplete %+v", auto)
	}
	if diff := cmp.Diff([]schema.Param{{Name: "status", Value: "active"}, {Name: "limit", Value: "10"}}, auto.Params); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
	if auto.Filter == nil || auto.Filter.Name != "customerFilter" {
		t.Fatalf("expected filter model, got %+v", auto.Filter)
	}

	ownerField, _ := model.Field("owner")
	search, ok := ownerField.Tags[0].(schema.Search)
	if !ok {
		t.Fatalf("expected search tag, got %T", ownerField.Tags[0])
	}
	if search.View == nil || search.View.Name != "customer" || search.Form == nil {
		t.Fatalf("unexpected search tag %+v", search)
	}
}

func TestIntrospectorIsModelSource(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister("Customer", customer{})
	registry.MustRegister("", account{})
	var src schema.ModelSource = New(WithRegistry(registry))

	if diff := cmp.Diff([]string{"Customer", "account"}, src.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	model, err := src.Model("Customer")
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	if model.Name != "customer" {
		t.Fatalf("expected customer model, got %q", model.Name)
	}
	if _, err := src.Model("Missing"); !errors.Is(err, schema.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestModelOfFailsOnUnregisteredReference(t *testing.T) {
	in := New()
	_, err := in.ModelOf(order{})
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Fatalf("expected registration error, got %v", err)
	}
	if len(in.cache) != 0 {
		t.Fatalf("expected failed build to leave the cache empty, got %d entries", len(in.cache))
	}
}

func TestModelOfRejectsInvalidTags(t *testing.T) {
	type badMin struct {
		Count int `form:"min=abc"`
	}
	type badChildren struct {
		Items []string `form:"children"`
	}
	type badOptions struct {
		Kind string `form:"options"`
	}
	for name, v := range map[string]any{"min": badMin{}, "children": badChildren{}, "options": badOptions{}} {
		if _, err := New().ModelOf(v); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestModelOfRejectsNonStruct(t *testing.T) {
	if _, err := New().ModelOf(42); err == nil {
		t.Fatalf("expected error for non-struct type")
	}
	if _, err := New().ModelOf(nil); err == nil {
		t.Fatalf("expected error for nil")
	}
}

func TestOfUsesDefaultIntrospector(t *testing.T) {
	first, err := Of[namespaced]()
	if err != nil {
		t.Fatalf("of: %v", err)
	}
	second := MustModelOf(&namespaced{})
	if first != second {
		t.Fatalf("expected cached model to be shared")
	}
}

func TestLowerCamel(t *testing.T) {
	cases := map[string]string{
		"FullName": "fullName",
		"ID":       "id",
		"URLPath":  "urlPath",
		"name":     "name",
		"":         "",
	}
	for in, want := range cases {
		if got := LowerCamel(in); got != want {
			t.Fatalf("LowerCamel(%q) = %q, want %q", in, got, want)
		}
	}
}

type chain struct {
	*chain
	Label string
}

type ping struct {
	*pong
	Ping string
}

type pong struct {
	*ping
	Pong string
}

func TestModelOfRejectsSelfEmbedding(t *testing.T) {
	for name, v := range map[string]any{"self": chain{}, "mutual": ping{}} {
		_, err := New().ModelOf(v)
		if err == nil || !strings.Contains(err.Error(), "embeds itself") {
			t.Fatalf("%s: expected embedding cycle error, got %v", name, err)
		}
	}
}
