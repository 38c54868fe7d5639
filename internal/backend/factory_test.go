package backend

import (
	"path/filepath"
	"testing"

	"wallet/internal/storage"
)

func TestTypeIsValid(t *testing.T) {
	tests := []struct {
		t    Type
		want bool
	}{
		{JSONBackend, true},
		{SQLiteBackend, true},
		{Type("sheets"), false},
		{Type(""), false},
	}
	for _, tt := range tests {
		if got := tt.t.IsValid(); got != tt.want {
			t.Errorf("Type(%q).IsValid() = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestCreateGateway(t *testing.T) {
	factory := NewFactory(nil)
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		res, err := factory.CreateGateway(Config{
			Type:     JSONBackend,
			DataFile: filepath.Join(dir, "wallet_data.json"),
			Variant:  storage.VariantLedger,
		})
		if err != nil {
			t.Fatalf("CreateGateway(json) error = %v", err)
		}
		if res.Gateway == nil {
			t.Fatal("CreateGateway(json) returned nil gateway")
		}
		if res.Cleanup != nil {
			t.Error("json gateway should need no cleanup")
		}
	})

	t.Run("json without data file", func(t *testing.T) {
		_, err := factory.CreateGateway(Config{Type: JSONBackend, Variant: storage.VariantLedger})
		if err == nil {
			t.Fatal("CreateGateway without data file should fail")
		}
	})

	t.Run("json with bad variant", func(t *testing.T) {
		_, err := factory.CreateGateway(Config{
			Type:     JSONBackend,
			DataFile: filepath.Join(dir, "x.json"),
			Variant:  storage.Variant("csv"),
		})
		if err == nil {
			t.Fatal("CreateGateway with unknown variant should fail")
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := factory.CreateGateway(Config{
			Type:         SQLiteBackend,
			SQLiteDBPath: filepath.Join(dir, "wallet.db"),
		})
		if err != nil {
			t.Fatalf("CreateGateway(sqlite) error = %v", err)
		}
		if res.Cleanup == nil {
			t.Fatal("sqlite gateway must provide a cleanup")
		}
		if err := res.Cleanup(); err != nil {
			t.Errorf("cleanup error = %v", err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := factory.CreateGateway(Config{Type: Type("memory")})
		if err == nil {
			t.Fatal("CreateGateway with unknown type should fail")
		}
	})
}
