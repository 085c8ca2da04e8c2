package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestProvider_PlayerID(t *testing.T) {
	p := NewProvider("device-1")
	if p.PlayerID() != "device-1" {
		t.Errorf("PlayerID = %s, want device-1", p.PlayerID())
	}

	p.SetAccountID("wallet-1")
	if p.PlayerID() != "wallet-1" {
		t.Errorf("PlayerID = %s, want wallet-1", p.PlayerID())
	}

	// 接続解除でデバイスIDに戻る
	p.SetAccountID("")
	if p.PlayerID() != "device-1" {
		t.Errorf("PlayerID = %s, want device-1", p.PlayerID())
	}
}

func TestProvider_NotifiesOnChange(t *testing.T) {
	p := NewProvider("device-1")
	var changes []string
	p.OnChange(func(newID string) { changes = append(changes, newID) })

	p.SetAccountID("wallet-1")
	p.SetAccountID("wallet-1") // 実効IDが変わらないので通知しない
	p.SetAccountID("")

	want := []string{"wallet-1", "device-1"}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %s, want %s", i, changes[i], want[i])
		}
	}
}

func TestNewProvider_GeneratesDeviceID(t *testing.T) {
	p := NewProvider("")
	if _, err := uuid.Parse(p.PlayerID()); err != nil {
		t.Errorf("generated ID is not a UUID: %s", p.PlayerID())
	}
}

func TestLoadDeviceID_CreatesAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids", "device_id")

	first, err := LoadDeviceID(path)
	if err != nil {
		t.Fatalf("LoadDeviceID failed: %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("created ID is not a UUID: %s", first)
	}

	// 再読み込みで同じIDが返る
	second, err := LoadDeviceID(path)
	if err != nil {
		t.Fatalf("second LoadDeviceID failed: %v", err)
	}
	if second != first {
		t.Errorf("reloaded ID = %s, want %s", second, first)
	}
}

func TestLoadDeviceID_ReplacesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")
	if err := os.WriteFile(path, []byte("not-a-uuid\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	id, err := LoadDeviceID(path)
	if err != nil {
		t.Fatalf("LoadDeviceID failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("replacement ID is not a UUID: %s", id)
	}
	if id == "not-a-uuid" {
		t.Error("corrupt ID should have been replaced")
	}
}
