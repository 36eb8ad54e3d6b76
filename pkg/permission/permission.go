// Package permission evaluates Discord permission bitmasks.
//
// Discord encodes permissions as decimal strings because the mask does not fit into the safe
// integer range of every client. Values are parsed into big.Int and never go through float64.
package permission

import (
	"errors"
	"math/big"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var (
	Administrator = big.NewInt(discordgo.PermissionAdministrator)
	ManageGuild   = big.NewInt(discordgo.PermissionManageServer)
)

var ErrInvalidPermissions = errors.New("invalid permissions")

// Parse converts a decimal permission string into a big.Int. Empty, negative or non numeric
// values are rejected.
func Parse(bits string) (*big.Int, error) {
	bits = strings.TrimSpace(bits)
	if bits == "" {
		return nil, ErrInvalidPermissions
	}

	value, ok := new(big.Int).SetString(bits, 10)
	if !ok || value.Sign() < 0 {
		return nil, ErrInvalidPermissions
	}

	return value, nil
}

// Has reports whether every bit of flag is set in bits. Malformed input returns false.
func Has(bits string, flag *big.Int) bool {
	value, err := Parse(bits)
	if err != nil {
		return false
	}

	return new(big.Int).And(value, flag).Cmp(flag) == 0
}

// HasAdminPermission reports whether the Administrator bit (0x8) is set.
func HasAdminPermission(bits string) bool {
	return Has(bits, Administrator)
}

// HasManagePermission mirrors Discord's "can manage server": Administrator or Manage Guild (0x20).
func HasManagePermission(bits string) bool {
	return HasAdminPermission(bits) || Has(bits, ManageGuild)
}

// IsGuildAdmin is the Discord-level check of the dashboard. Guild owners always pass.
func IsGuildAdmin(owner bool, bits string) bool {
	return owner || HasManagePermission(bits)
}

// Combine ORs several permission strings, e.g. the @everyone role and the roles of a member.
// Malformed parts are skipped.
func Combine(bits ...string) string {
	total := new(big.Int)
	for _, b := range bits {
		value, err := Parse(b)
		if err != nil {
			continue
		}
		total.Or(total, value)
	}

	return total.String()
}
