package user

import (
	"testing"
	"time"

	"github.com/trezcool/tesina/core"
)

func TestMakeToken(t *testing.T) {
	conf := core.NewConfig()

	usr := User{ID: 1, Username: "awe", Email: "awe@tesina.cd"}
	if err := usr.SetPassword("LolC@t123"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}

	token, err := MakeToken(usr)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	if token == "" {
		t.Fatal("MakeToken() returned an empty token")
	}

	t.Run("valid token", func(t *testing.T) {
		if err := verifyToken(usr, token, conf); err != nil {
			t.Errorf("verifyToken() error = %v; want nil", err)
		}
	})

	t.Run("token cannot be reused after a password change", func(t *testing.T) {
		changed := usr
		if err := changed.SetPassword("An0ther!Pwd"); err != nil {
			t.Fatalf("SetPassword() failed: %v", err)
		}
		if err := verifyToken(changed, token, conf); err != errInvalidToken {
			t.Errorf("verifyToken() error = %v; want %v", err, errInvalidToken)
		}
	})

	t.Run("token cannot be reused after a login", func(t *testing.T) {
		loggedIn := usr
		loggedIn.LastLogin = time.Now().UTC()
		if err := verifyToken(loggedIn, token, conf); err != errInvalidToken {
			t.Errorf("verifyToken() error = %v; want %v", err, errInvalidToken)
		}
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		if err := verifyToken(usr, token+"x", conf); err != errInvalidToken {
			t.Errorf("verifyToken() error = %v; want %v", err, errInvalidToken)
		}
	})

	t.Run("empty and malformed tokens are rejected", func(t *testing.T) {
		for _, tok := range []string{"", "nodash", "!!!-sig"} {
			if err := verifyToken(usr, tok, conf); err != errInvalidToken {
				t.Errorf("verifyToken(%q) error = %v; want %v", tok, err, errInvalidToken)
			}
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		NowFunc = func() time.Time { return time.Now().AddDate(0, 0, -5) }
		oldToken, err := MakeToken(usr)
		NowFunc = time.Now
		if err != nil {
			t.Fatalf("MakeToken() failed: %v", err)
		}
		if err := verifyToken(usr, oldToken, conf); err != errTokenExpired {
			t.Errorf("verifyToken() error = %v; want %v", err, errTokenExpired)
		}
	})

	t.Run("uid round trip", func(t *testing.T) {
		id, err := decodeUID(EncodeUID(usr))
		if err != nil {
			t.Fatalf("decodeUID() failed: %v", err)
		}
		if id != usr.ID {
			t.Errorf("decodeUID() = %d; want %d", id, usr.ID)
		}
	})
}
