// Package randgen generates the random artifacts used around authentication:
// OTP codes, opaque correlation identifiers, location tokens and temporary
// passwords.
package randgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Ambiguous characters (0/O, 1/l/I) are left out since temporary passwords are
// read out of an email.
const passwordCharset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// OTPCode returns a 6-digit numeric code in [100000, 999999].
func OTPCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken.
		panic(fmt.Sprintf("randgen: %v", err))
	}

	return fmt.Sprintf("%d", 100000+n.Int64())
}

// Identifier returns a 32-character opaque identifier correlating a client's
// OTP confirmation with the issued ticket.
func Identifier() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// LocationToken returns the 10-character public check-in path segment of a
// location. Collisions are not checked; the space is large enough for the
// number of locations this system manages.
func LocationToken() string {
	return Identifier()[:10]
}

// TempPassword returns a random password of the given length whose final
// character is always a digit.
func TempPassword(length int) string {
	if length < 2 {
		length = 2
	}

	var b strings.Builder
	for i := 0; i < length-1; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordCharset))))
		if err != nil {
			panic(fmt.Sprintf("randgen: %v", err))
		}
		b.WriteByte(passwordCharset[n.Int64()])
	}

	n, err := rand.Int(rand.Reader, big.NewInt(10))
	if err != nil {
		panic(fmt.Sprintf("randgen: %v", err))
	}
	b.WriteString(n.String())

	return b.String()
}
