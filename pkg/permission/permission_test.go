package permission

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasAdminPermission(t *testing.T) {
	tests := []struct {
		name   string
		bits   string
		admin  bool
		manage bool
	}{
		{name: "administrator only", bits: "8", admin: true, manage: true},
		{name: "manage guild only", bits: "32", admin: false, manage: true},
		{name: "administrator and manage guild", bits: "40", admin: true, manage: true},
		{name: "zero", bits: "0", admin: false, manage: false},
		{name: "other bits", bits: "2147483639", admin: false, manage: true},
		{name: "other bits without manage", bits: "2147483607", admin: false, manage: false},
		{name: "beyond 53 bits with administrator", bits: "9007199254740993", admin: false, manage: false},
		{name: "beyond 64 bits with administrator", bits: "36893488147419103240", admin: true, manage: true},
		{name: "surrounding spaces", bits: " 8 ", admin: true, manage: true},
		{name: "empty", bits: "", admin: false, manage: false},
		{name: "not a number", bits: "admin", admin: false, manage: false},
		{name: "hex is not accepted", bits: "0x8", admin: false, manage: false},
		{name: "negative", bits: "-8", admin: false, manage: false},
		{name: "float", bits: "8.0", admin: false, manage: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.admin, HasAdminPermission(tt.bits))
			require.Equal(t, tt.manage, HasManagePermission(tt.bits))
		})
	}
}

func TestHasAdminPermission_BitIsolation(t *testing.T) {
	// Setting any single bit other than 0x8 never grants administrator, and adding 0x8 to any mask
	// always does.
	for i := 0; i < 70; i++ {
		bit := new(big.Int).Lsh(big.NewInt(1), uint(i))
		withAdmin := new(big.Int).Or(bit, Administrator)

		require.Equal(t, i == 3, HasAdminPermission(bit.String()), "bit %d", i)
		require.True(t, HasAdminPermission(withAdmin.String()), "bit %d with administrator", i)
	}
}

func TestIsGuildAdmin(t *testing.T) {
	require.True(t, IsGuildAdmin(true, "0"))
	require.True(t, IsGuildAdmin(true, "garbage"))
	require.True(t, IsGuildAdmin(false, "8"))
	require.True(t, IsGuildAdmin(false, "32"))
	require.False(t, IsGuildAdmin(false, "0"))
	require.False(t, IsGuildAdmin(false, ""))
}

func TestCombine(t *testing.T) {
	require.Equal(t, "40", Combine("8", "32"))
	require.Equal(t, "8", Combine("8", "bad", ""))
	require.Equal(t, "0", Combine())

	high := new(big.Int).Lsh(big.NewInt(1), 65)
	require.Equal(t, new(big.Int).Or(high, ManageGuild).String(), Combine(high.String(), fmt.Sprint(32)))
}

func TestParse(t *testing.T) {
	v, err := Parse("1099511627775")
	require.NoError(t, err)
	require.Equal(t, "1099511627775", v.String())

	_, err = Parse("12a")
	require.ErrorIs(t, err, ErrInvalidPermissions)
}
