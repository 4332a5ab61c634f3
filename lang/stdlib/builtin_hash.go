package stdlib

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

func hashBuiltins() []*value.Builtin {
	hash := func(name string, sum func([]byte) []byte) *value.Builtin {
		return &value.Builtin{Name: name, Params: []string{"s"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], name)
			if err != nil {
				return nil, err
			}
			return value.NewString(hex.EncodeToString(sum([]byte(s.Go())))), nil
		}}
	}
	return []*value.Builtin{
		hash("md5", func(b []byte) []byte { s := md5.Sum(b); return s[:] }),
		hash("sha1", func(b []byte) []byte { s := sha1.Sum(b); return s[:] }),
		hash("sha256", func(b []byte) []byte { s := sha256.Sum256(b); return s[:] }),
		hash("sha512", func(b []byte) []byte { s := sha512.Sum512(b); return s[:] }),
		hash("sha3", func(b []byte) []byte { s := sha3.Sum512(b); return s[:] }),
	}
}
