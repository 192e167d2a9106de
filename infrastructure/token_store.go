package infrastructure

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.etcd.io/bbolt"
)

var (
	authBucket = []byte("Auth")
	tokenKey   = []byte("token")
	userKey    = []byte("user")
)

// TokenStore хранит токен сессии между запусками в файле bbolt.
// Значение также держится в памяти, чтобы не читать файл на каждый запрос.
type TokenStore struct {
	db *bbolt.DB

	mu    sync.RWMutex
	token string
	user  []byte
	now   func() time.Time
}

// OpenTokenStore открывает (или создаёт) файл хранилища
func OpenTokenStore(path string) (*TokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть хранилище токена: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(authBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &TokenStore{db: db, now: time.Now}
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(authBucket)
		s.token = string(b.Get(tokenKey))
		if u := b.Get(userKey); u != nil {
			s.user = append([]byte(nil), u...)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close закрывает файл
func (s *TokenStore) Close() error {
	return s.db.Close()
}

// Token действующий токен или "", если его нет или срок истёк
func (s *TokenStore) Token() string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return ""
	}
	if exp, ok := TokenExpiry(token); ok && !s.now().Before(exp) {
		log.Printf("Срок действия токена истёк %s", exp.Format(time.RFC3339))
		return ""
	}
	return token
}

// User сохранённые данные пользователя (JSON)
func (s *TokenStore) User() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.user...)
}

// Save сохраняет токен и данные пользователя
func (s *TokenStore) Save(token string, user []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(authBucket)
		if err := b.Put(tokenKey, []byte(token)); err != nil {
			return err
		}
		return b.Put(userKey, user)
	})
	if err != nil {
		return fmt.Errorf("не удалось сохранить токен: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = append([]byte(nil), user...)
	s.mu.Unlock()
	return nil
}

// Clear удаляет токен (выход)
func (s *TokenStore) Clear() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(authBucket)
		if err := b.Delete(tokenKey); err != nil {
			return err
		}
		return b.Delete(userKey)
	})
	if err != nil {
		return fmt.Errorf("не удалось удалить токен: %w", err)
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return nil
}

// TokenExpiry читает exp из JWT без проверки подписи: ключ есть только у бэкенда,
// а клиенту срок нужен лишь для того, чтобы не слать заведомо просроченный токен.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
