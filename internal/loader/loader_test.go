package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreYAML = `openapi: 3.0.3
info:
  title: Pet Store
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: ListPets
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Pet"
components:
  schemas:
    Pet:
      type: object
      properties:
        id:
          type: string
        name:
          type: string
      required:
        - id
`

func TestLoadBytes(t *testing.T) {
	f := LoadBytes("petstore.yaml", []byte(petstoreYAML))

	require.NoError(t, f.Err)
	require.NotNil(t, f.Spec)
	require.Nil(t, f.Diagnostic())

	assert.Equal(t, "Pet Store", f.Spec.Info.Title)
	assert.Equal(t, 1, f.PathCount())
	assert.Equal(t, 1, f.OperationCount())
	assert.Equal(t, 1, f.SchemaCount())
	assert.Greater(t, f.LineCount, 10)
}

func TestLoadBytesPathLevelParameters(t *testing.T) {
	const doc = `openapi: 3.0.3
info:
  title: Pet Store
  version: 1.0.0
paths:
  /pets/{petKey}:
    parameters:
      - name: petKey
        in: path
        required: true
        schema:
          type: string
    get:
      operationId: GetPet
      responses:
        "200":
          description: OK
`

	f := LoadBytes("petstore.yaml", []byte(doc))

	require.NoError(t, f.Err)
	require.Len(t, f.Spec.Paths, 1)

	params := f.Spec.Paths[0].Parameters
	require.Len(t, params, 1)
	assert.Equal(t, "petKey", params[0].Name)
	assert.True(t, params[0].Required)
}

func TestLoadBytesDanglingComponentRef(t *testing.T) {
	// The shape a part file takes when a shared schema was promoted to a
	// sibling common file: Pet is local, Audit is not.
	const partYAML = `openapi: 3.0.3
info:
  title: Pet Store (pets)
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        id:
          type: string
        audit:
          $ref: "#/components/schemas/Audit"
`

	f := LoadBytes("api_pets.yaml", []byte(partYAML))

	require.NoError(t, f.Err)
	require.NotNil(t, f.Spec)

	// Only the locally defined schema survives; the stubbed target does not
	// become a phantom component.
	require.Equal(t, 1, f.SchemaCount())
	pet := f.Spec.Schemas[0]
	assert.Equal(t, "Pet", pet.Name)

	require.Len(t, pet.Properties, 2)
	assert.Equal(t, "#/components/schemas/Audit", pet.Properties[1].Schema.Ref)
}

func TestLoadBytesInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "{{{"},
		{"swagger 2", "swagger: \"2.0\"\ninfo:\n  title: Old\n  version: 1.0.0\npaths: {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := LoadBytes("bad.yaml", []byte(tt.data))
			require.Error(t, f.Err)
			assert.Nil(t, f.Spec)

			d := f.Diagnostic()
			require.NotNil(t, d)
			assert.Equal(t, "load-parse-failure", d.Rule)
			assert.Equal(t, "bad.yaml", d.File)

			// Counts are safe to call on a failed load.
			assert.Zero(t, f.PathCount())
			assert.Zero(t, f.SchemaCount())
			assert.Zero(t, f.OperationCount())
			assert.Zero(t, f.ParameterCount())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	f := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, f.Err)
	assert.Nil(t, f.Spec)
}

func TestClassifySet(t *testing.T) {
	t.Run("base and parts", func(t *testing.T) {
		files := []*SpecFile{
			{Path: "api.yaml"},
			{Path: "api_pets.yaml"},
			{Path: "api_orders.yaml"},
		}

		ClassifySet(files)

		assert.True(t, files[0].IsBase)
		assert.False(t, files[0].IsPart)

		assert.True(t, files[1].IsPart)
		assert.Equal(t, "pets", files[1].PartName)

		assert.True(t, files[2].IsPart)
		assert.Equal(t, "orders", files[2].PartName)
	})

	t.Run("all parts promotes shortest name", func(t *testing.T) {
		files := []*SpecFile{
			{Path: "svc_billing.yaml"},
			{Path: "svc_pets.yaml"},
		}

		ClassifySet(files)

		assert.True(t, files[1].IsBase, "svc_pets.yaml is the shortest name")
		assert.False(t, files[1].IsPart)
		assert.True(t, files[0].IsPart)
		assert.Equal(t, "billing", files[0].PartName)
	})

	t.Run("empty set", func(t *testing.T) {
		ClassifySet(nil)
	})
}

func TestDiscoverParts(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	write("api.yaml")
	write("api_pets.yaml")
	write("api_orders.yaml")
	write("api_orders.json") // wrong extension
	write("other.yaml")      // unrelated sibling

	parts, err := DiscoverParts(filepath.Join(dir, "api.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "api_orders.yaml"),
		filepath.Join(dir, "api_pets.yaml"),
	}, parts)
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(nil))
	assert.Equal(t, 1, countLines([]byte("a")))
	assert.Equal(t, 1, countLines([]byte("a\n")))
	assert.Equal(t, 2, countLines([]byte("a\nb")))
}
