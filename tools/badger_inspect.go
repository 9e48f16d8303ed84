package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Dumps the records of a chatstream Badger store as a table. Keys are
// slash-joined paths; values are proto-encoded field structs.
func main() {
	dbPath := flag.String("db", "/tmp/chatstream-badger", "Path to badger DB")
	prefix := flag.String("prefix", "chats/", "Key prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "From", "Date", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				var record structpb.Struct
				if err := proto.Unmarshal(v, &record); err != nil {
					// Keep scanning past the one bad record.
					fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
					return nil
				}
				fields := record.AsMap()

				tag, _ := fields["type"].(string)
				from, _ := fields["from"].(string)
				date := ""
				if millis, ok := fields["date"].(float64); ok {
					date = time.UnixMilli(int64(millis)).UTC().Format("15:04:05")
				}

				detail := ""
				switch {
				case tag != "":
					if body, ok := fields["body"].(map[string]any); ok {
						if text, ok := body["text"].(string); ok {
							detail = text
						} else {
							detail = summarize(body)
						}
					}
				default:
					detail = summarize(fields)
				}

				table.Append([]string{key, tag, from, date, detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func summarize(fields map[string]any) string {
	parts := make([]string, 0, len(fields))
	for k, v := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, " ")
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
