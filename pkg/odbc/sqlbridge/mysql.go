package sqlbridge

import (
	"net"
	"regexp"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

func init() {
	Register(&Profile{
		Name:             "mysql",
		DBMSName:         "MySQL",
		Driver:           "mysql",
		Matches:          regexp.MustCompile(`(?i)mysql|mariadb`),
		IdentifierCase:   odbc.ICMixed,
		QuoteChar:        "`",
		MaxIdentifierLen: 64,
		MaxTableNameLen:  64,
		VersionQuery:     "SELECT VERSION()",
		UserQuery:        "SELECT CURRENT_USER()",
		DatabaseQuery:    "SELECT DATABASE()",
		DSN:              buildMySQLDSN,
	})
}

func buildMySQLDSN(attrs *odbc.Attributes) (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = lookup(attrs, "", "UID", "USER", "USERNAME")
	cfg.Passwd = lookup(attrs, "", "PWD", "PASSWORD")
	cfg.DBName = lookup(attrs, "", "DATABASE", "DB")
	cfg.ParseTime = true

	if socket := lookup(attrs, "", "SOCKET"); socket != "" {
		cfg.Net = "unix"
		cfg.Addr = socket
	} else {
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(
			lookup(attrs, "127.0.0.1", "SERVER", "HOST"),
			lookup(attrs, "3306", "PORT"),
		)
	}
	return cfg.FormatDSN(), nil
}
