// Package naslstorage implements the Storage and Loader external
// collaborators spec §6 declares as contracts
// (naslregister.Storage/naslregister.Loader): a redis-backed Storage
// (spec §6's "redis ... storage backend"), a sqlite-backed Storage
// (the "filesystem storage backend"), and a filesystem Loader. The
// core never imports this package directly — it is wired in at the
// CLI/admin-server layer.
package naslstorage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// encodeValue renders a naslvalue.Value as a single-line string
// suitable for a redis list entry or a sqlite TEXT column. Only the
// scalar kinds the KB built-ins actually traffic in (spec §4.4's
// kb module: get_kb_item/set_kb_item/get_kb_list) need a wire form;
// compound values are encoded via their display string, matching the
// legacy KB's "everything is ultimately a string or number" storage
// model.
func encodeValue(v naslvalue.Value) string {
	switch v.Kind {
	case naslvalue.KindNumber:
		return "n:" + strconv.FormatInt(v.Number, 10)
	case naslvalue.KindData:
		return "d:" + v.Str
	case naslvalue.KindNull:
		return "u:"
	default:
		return "s:" + v.String()
	}
}

// decodeValue is encodeValue's inverse.
func decodeValue(raw string) naslvalue.Value {
	tag, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return naslvalue.Str(raw)
	}
	switch tag {
	case "n":
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return naslvalue.Str(rest)
		}
		return naslvalue.Num(n)
	case "d":
		return naslvalue.Data(rest)
	case "u":
		return naslvalue.Null
	case "s":
		return naslvalue.Str(rest)
	default:
		return naslvalue.Str(raw)
	}
}

func kbRedisKey(scriptKey, name string) string {
	return fmt.Sprintf("naslrun:kb:%s:%s", scriptKey, name)
}
