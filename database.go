package main

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, passwd string, host string, dbName string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, passwd, host, port, dbName)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type DetectorChannel struct {
	Module   uint16 `db:"module"`
	Channel  uint16 `db:"channel"`
	Detector string `db:"detector"`
}

type ChannelKey struct {
	Module  uint16
	Channel uint16
}

// ChannelMap labels (module, channel) pairs with the detector wired to
// them, for the counts table output.
type ChannelMap map[ChannelKey]string

func getChannelMapFromDB(db *sqlx.DB, runNumber int) (ChannelMap, error) {
	query := fmt.Sprintf(
		"SELECT module, channel, detector FROM ChannelMap WHERE MinRun <= %d and MaxRun >= %d",
		runNumber, runNumber)
	rows, err := db.Queryx(query)
	if err != nil {
		return nil, err
	}

	channels := make(ChannelMap)
	for rows.Next() {
		result := DetectorChannel{}
		err := rows.StructScan(&result)
		if err != nil {
			return nil, err
		}
		channels[ChannelKey{result.Module, result.Channel}] = result.Detector
	}
	return channels, nil
}
