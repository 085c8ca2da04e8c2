package identity

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Provider は現在のプレイヤーIDを解決します。ウォレット接続時はその
// アカウントID、未接続時は永続化されたデバイスUUIDを返します。
// IDが変わると登録済みのリスナーに通知します。
type Provider struct {
	mu        sync.Mutex
	deviceID  string
	accountID string
	listeners []func(newID string)
}

func NewProvider(deviceID string) *Provider {
	if deviceID == "" {
		deviceID = uuid.NewString()
	}
	return &Provider{deviceID: deviceID}
}

// PlayerID は現在有効なプレイヤーIDを返します。
func (p *Provider) PlayerID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accountID != "" {
		return p.accountID
	}
	return p.deviceID
}

// SetAccountID はウォレットのアカウントIDを設定します。
// 空文字で接続解除を表します。有効なIDが変わった場合のみ通知します。
func (p *Provider) SetAccountID(accountID string) {
	p.mu.Lock()
	before := p.currentLocked()
	p.accountID = accountID
	after := p.currentLocked()
	listeners := p.listeners
	p.mu.Unlock()

	if before == after {
		return
	}
	for _, listener := range listeners {
		listener(after)
	}
}

// OnChange はプレイヤーID変更時に呼ばれるリスナーを登録します。
func (p *Provider) OnChange(fn func(newID string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *Provider) currentLocked() string {
	if p.accountID != "" {
		return p.accountID
	}
	return p.deviceID
}

// LoadDeviceID はファイルからデバイスUUIDを読み込みます。
// 存在しない場合は新規発行して保存します。
func LoadDeviceID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", err
	}
	return id, nil
}
