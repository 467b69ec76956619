package bot

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// CompanyPasswordHash computes the salted hash sent in CLIENT_MOVE. Byte i
// of a 32-byte buffer is password[i] XOR serverID[i] XOR ((gameSeed >> (i
// mod 32)) & 0xFF), treating missing password/serverID bytes as zero. The
// digest is emitted as uppercase hex, matching upstream
// GenerateCompanyPasswordHash (an older implementation used lowercase). An
// empty password always yields an empty string.
func CompanyPasswordHash(password, serverID string, gameSeed uint32) string {
	if password == "" {
		return ""
	}

	var buf [32]byte
	for i := range buf {
		var pw, sid byte
		if i < len(password) {
			pw = password[i]
		}
		if i < len(serverID) {
			sid = serverID[i]
		}
		shift := uint(i % 32)
		buf[i] = pw ^ sid ^ byte((gameSeed>>shift)&0xFF)
	}

	sum := md5.Sum(buf[:])
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
