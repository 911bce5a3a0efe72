// Package dbms introspects the capabilities of a live native session.
package dbms

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
	"github.com/spf13/cast"
)

// Fields lists the info types requested from the driver, in request order.
var Fields = []odbc.InfoType{
	odbc.InfoDBMSName,
	odbc.InfoDBMSVer,
	odbc.InfoIdentifierCase,
	odbc.InfoQuotedIdentifierCase,
	odbc.InfoIdentifierQuoteChar,
	odbc.InfoMaxIdentifierLen,
	odbc.InfoMaxTableNameLen,
	odbc.InfoUserName,
	odbc.InfoDatabaseName,
}

// Introspect asks the driver for every info type in Fields exactly once and
// builds the capability record. Answers the driver leaves empty become zero
// values.
func Introspect(ctx context.Context, conn odbc.Conn) (core.Capabilities, error) {
	fields := make(map[odbc.InfoType]any, len(Fields))
	for _, info := range Fields {
		v, err := conn.GetInfo(ctx, info)
		if err != nil {
			return core.Capabilities{}, fmt.Errorf("failed to get %s: %w", info, err)
		}
		fields[info] = v
	}

	caps := core.Capabilities{
		DBMSName:             asString(fields[odbc.InfoDBMSName]),
		DBMSVersion:          asString(fields[odbc.InfoDBMSVer]),
		IdentifierCase:       core.IdentifierCaseFromODBC(uint16(asInt(fields[odbc.InfoIdentifierCase]))),
		QuotedIdentifierCase: core.IdentifierCaseFromODBC(uint16(asInt(fields[odbc.InfoQuotedIdentifierCase]))),
		IdentifierQuoteChar:  asString(fields[odbc.InfoIdentifierQuoteChar]),
		MaxIdentifierLen:     asInt(fields[odbc.InfoMaxIdentifierLen]),
		MaxTableNameLen:      asInt(fields[odbc.InfoMaxTableNameLen]),
		UserName:             asString(fields[odbc.InfoUserName]),
		DatabaseName:         asString(fields[odbc.InfoDatabaseName]),
	}
	return core.NewCapabilities(caps, fields), nil
}

func asString(v any) string {
	return cast.ToString(v)
}

// asInt degrades unreadable answers to zero.
func asInt(v any) int {
	switch x := v.(type) {
	case string:
		v = strings.TrimSpace(x)
	case []byte:
		v = strings.TrimSpace(string(x))
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0
	}
	return i
}
