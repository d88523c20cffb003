package corefmt

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/sdk/core"
)

func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.WrapAs(errs.Warn, err, "decode base64url failed")
	}
	return b, nil
}

// EncodeTextBytes 給 log 用的可複製字串
func EncodeTextBytes(b []byte) string {
	return hex.EncodeToString(b)
}

// SnapshotB64U 取得亂數狀態快照的 Base64URL 字串（可放進 JSON / URL）
func SnapshotB64U(r core.Restorable) (string, error) {
	if r == nil {
		return "", errs.NewFatal("nil rng")
	}
	b, err := r.Snapshot()
	if err != nil {
		return "", errs.Wrap(err, "snapshot rng failed")
	}
	return EncodeBase64URL(b), nil
}

// RestoreB64U 以 SnapshotB64U 的輸出還原亂數狀態
func RestoreB64U(r core.Restorable, s string) error {
	if r == nil {
		return errs.NewFatal("nil rng")
	}
	b, err := DecodeBase64URL(s)
	if err != nil {
		return err
	}
	if err := r.Restore(b); err != nil {
		return errs.WrapAs(errs.Warn, err, "restore rng failed")
	}
	return nil
}
