package formgen_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdescriptor/pkg/formgen"
	"github.com/goliatone/go-formdescriptor/pkg/openapi"
	"github.com/goliatone/go-formdescriptor/pkg/testsupport"
)

const userFormDocument = `
openapi: 3.0.3
info: {title: users, version: "1"}
paths: {}
components:
  schemas:
    userRole:
      type: string
      enum: [ADMIN, USER]
    userForm:
      type: object
      x-form:
        order: [email, password, fullName, role]
      required: [email, password, role]
      properties:
        email:
          type: string
          format: email
        password:
          type: string
          x-form:
            properties:
              - name: type
                value: password
        fullName:
          type: string
        role:
          $ref: "#/components/schemas/userRole"
`

func TestOpenAPIModelMatchesStructModel(t *testing.T) {
	doc := openapi.MustNewDocument(openapi.SourceFromFS("users.yaml"), []byte(userFormDocument))
	catalog, err := openapi.NewCatalog(testsupport.Context(), doc, openapi.WithNamespace("formgen_test"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	fromDocument, err := catalog.Model("userForm")
	if err != nil {
		t.Fatalf("model: %v", err)
	}

	gen := formgen.New(testsupport.EchoResolver)
	want := generate(t, gen, formgen.Request{Model: mustModel(t, userForm{}), Endpoint: "/api/users"})
	got := generate(t, gen, formgen.Request{Model: fromDocument, Endpoint: "/api/users"})

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptor mismatch (-struct +openapi):\n%s", diff)
	}
}
