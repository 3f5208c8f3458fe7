package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostforge/internal/config"
)

func noopFactory(desc Descriptor) Factory {
	return func(deps Deps) Task {
		return &stubTask{Base: NewBase(desc, deps), journal: &journal{}}
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		desc    Descriptor
		factory bool
		wantErr string
	}{
		{name: "valid", desc: Descriptor{Name: "packages"}, factory: true},
		{name: "empty name", desc: Descriptor{}, factory: true, wantErr: "name cannot be empty"},
		{name: "nil factory", desc: Descriptor{Name: "user"}, wantErr: "factory cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg := NewRegistry()
			var factory Factory
			if tt.factory {
				factory = noopFactory(tt.desc)
			}
			err := reg.Register(tt.desc, factory)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Zero(t, reg.Len())
				return
			}
			require.NoError(t, err)
			assert.True(t, reg.Has(tt.desc.Name))
		})
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	desc := Descriptor{Name: "firewall", DependsOn: []string{"packages"}}
	require.NoError(t, reg.Register(desc, noopFactory(desc)))

	err := reg.Register(Descriptor{Name: "firewall"}, noopFactory(desc))
	require.ErrorIs(t, err, ErrDuplicateTask)

	deps := reg.DependenciesOf("firewall")
	assert.Equal(t, []string{"packages"}, deps, "first registration wins")
	assert.Panics(t, func() { reg.MustRegister(desc, noopFactory(desc)) })
}

func TestRegistry_NamesKeepRegistrationOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	for _, name := range []string{"packages", "user", "firewall", "python"} {
		desc := Descriptor{Name: name}
		reg.MustRegister(desc, noopFactory(desc))
	}

	assert.Equal(t, []string{"packages", "user", "firewall", "python"}, reg.Names())
	assert.Equal(t, 4, reg.Len())

	descs := reg.Descriptors()
	require.Len(t, descs, 4)
	assert.Equal(t, "python", descs[3].Name)
}

func TestRegistry_DependenciesOf(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	desc := Descriptor{Name: "app", DependsOn: []string{"user", "packages"}}
	reg.MustRegister(desc, noopFactory(desc))

	deps := reg.DependenciesOf("app")
	assert.Equal(t, []string{"user", "packages"}, deps)

	deps[0] = "mutated"
	assert.Equal(t, []string{"user", "packages"}, reg.DependenciesOf("app"))

	desc.DependsOn[1] = "mutated"
	assert.Equal(t, []string{"user", "packages"}, reg.DependenciesOf("app"), "register copies the slice")

	unknown := reg.DependenciesOf("ghost")
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestRegistry_New(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	desc := Descriptor{Name: "user", Description: "Create the application user"}
	reg.MustRegister(desc, noopFactory(desc))

	task, err := reg.New("user", Deps{Config: config.Default()})
	require.NoError(t, err)
	assert.Equal(t, "user", task.Name())
	assert.Equal(t, "Create the application user", task.Description())

	_, err = reg.New("ghost", Deps{})
	var unknown *UnknownTaskError
	assert.ErrorAs(t, err, &unknown)
}

func TestDescriptor_Enabled(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	always := Descriptor{Name: "packages"}
	gated := Descriptor{Name: "database", EnabledWhen: func(c *config.Config) bool { return c.PostgresEnabled }}

	assert.True(t, always.Enabled(cfg))
	assert.False(t, gated.Enabled(cfg))

	cfg.PostgresEnabled = true
	assert.True(t, gated.Enabled(cfg))
}
