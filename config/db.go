package config

import (
	dbm "github.com/tendermint/tm-db"
)

// LightDBName is the database holding the trusted client, consensus and
// validator-set records of every light client under the home directory.
const LightDBName = "parlia"

// DBContext names the light-client database and the config it is opened with.
type DBContext struct {
	ID     string
	Config *Config
}

// DBProvider opens the database described by a DBContext.
type DBProvider func(*DBContext) (dbm.DB, error)

// DefaultDBProvider opens ctx.ID, or LightDBName when it is empty, with the
// configured db-backend under the db-dir.
func DefaultDBProvider(ctx *DBContext) (dbm.DB, error) {
	name := ctx.ID
	if name == "" {
		name = LightDBName
	}
	return dbm.NewDB(name, dbm.BackendType(ctx.Config.DBBackend), ctx.Config.DBDir())
}
