// Command dbkerneldemo exercises the whole dbkernel stack end to end:
// catalog registration, a buffer-pool-backed scan, all four relational
// operators, and a histogram cardinality estimate.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-dbkernel/dbkernel/internal/engine"
	"github.com/go-dbkernel/dbkernel/internal/storage"
)

func main() {
	fmt.Println("=== dbkernel demo ===")
	fmt.Println()

	db := storage.NewDatabase()
	fmt.Printf("1. Database %s initialized\n", db.InstanceID)

	usersDesc := storage.NewTupleDesc(
		storage.ColumnDesc{Name: "id", Type: storage.IntKind},
		storage.ColumnDesc{Name: "dept", Type: storage.IntKind},
		storage.ColumnDesc{Name: "salary", Type: storage.IntKind},
	)
	users := storage.NewMemFile("users", usersDesc)
	if err := db.Add(users); err != nil {
		log.Fatalf("register users: %v", err)
	}

	deptDesc := storage.NewTupleDesc(
		storage.ColumnDesc{Name: "dept", Type: storage.IntKind},
		storage.ColumnDesc{Name: "name", Type: storage.StringKind},
	)
	depts := storage.NewMemFile("depts", deptDesc)
	if err := db.Add(depts); err != nil {
		log.Fatalf("register depts: %v", err)
	}

	fmt.Println("\n2. Registered files: users, depts")

	rows := []storage.Tuple{
		storage.NewTuple(storage.IntField(1), storage.IntField(10), storage.IntField(50000)),
		storage.NewTuple(storage.IntField(2), storage.IntField(10), storage.IntField(60000)),
		storage.NewTuple(storage.IntField(3), storage.IntField(20), storage.IntField(70000)),
	}
	for _, r := range rows {
		if err := users.InsertTuple(r); err != nil {
			log.Fatalf("insert user: %v", err)
		}
	}
	for _, r := range []storage.Tuple{
		storage.NewTuple(storage.IntField(10), storage.StringField("engineering")),
		storage.NewTuple(storage.IntField(20), storage.StringField("sales")),
	} {
		if err := depts.InsertTuple(r); err != nil {
			log.Fatalf("insert dept: %v", err)
		}
	}
	fmt.Printf("   inserted %d user rows and 2 department rows\n", len(rows))

	fmt.Println("\n3. Reading users back through the buffer pool...")
	pid := storage.PageId{File: "users", Page: 0}
	if _, err := db.BufferPool().GetPage(pid); err != nil {
		log.Fatalf("GetPage: %v", err)
	}
	fmt.Printf("   buffer pool stats: %+v\n", db.BufferPool().Stats())

	ctx := context.Background()

	fmt.Println("\n4. Projection: (id, salary) from users")
	projOut := storage.NewMemFile("proj_out", storage.NewTupleDesc(
		storage.ColumnDesc{Name: "id", Type: storage.IntKind},
		storage.ColumnDesc{Name: "salary", Type: storage.IntKind},
	))
	if err := engine.Projection(ctx, users, projOut, []string{"id", "salary"}); err != nil {
		log.Fatalf("Projection: %v", err)
	}
	printRows(projOut)

	fmt.Println("\n5. Filter: salary >= 60000")
	filterOut := storage.NewMemFile("filter_out", usersDesc)
	preds := []engine.FilterPredicate{{Field: "salary", Op: engine.GE, Value: storage.IntField(60000)}}
	if err := engine.Filter(ctx, users, filterOut, preds); err != nil {
		log.Fatalf("Filter: %v", err)
	}
	printRows(filterOut)

	fmt.Println("\n6. Aggregate: SUM(salary) grouped by dept")
	aggOut := storage.NewMemFile("agg_out", storage.NewTupleDesc(
		storage.ColumnDesc{Name: "dept", Type: storage.IntKind},
		storage.ColumnDesc{Name: "total_salary", Type: storage.IntKind},
	))
	group := "dept"
	agg := engine.Aggregate{Field: "salary", Op: engine.SUM, Group: &group}
	if err := engine.AggregateRows(ctx, users, aggOut, agg); err != nil {
		log.Fatalf("AggregateRows: %v", err)
	}
	printRows(aggOut)

	fmt.Println("\n7. Join: users natural-join depts on dept = dept")
	joinOut := storage.NewMemFile("join_out", storage.NewTupleDesc(
		storage.ColumnDesc{Name: "id", Type: storage.IntKind},
		storage.ColumnDesc{Name: "dept", Type: storage.IntKind},
		storage.ColumnDesc{Name: "salary", Type: storage.IntKind},
		storage.ColumnDesc{Name: "dept_name", Type: storage.StringKind},
	))
	joinPred := engine.JoinPredicate{LeftField: "dept", RightField: "dept", Op: engine.EQ}
	if err := engine.Join(ctx, users, depts, joinOut, joinPred); err != nil {
		log.Fatalf("Join: %v", err)
	}
	printRows(joinOut)

	fmt.Println("\n8. ColumnStats: selectivity estimate over salary")
	stats, err := engine.NewColumnStats(5, 50000, 75000)
	if err != nil {
		log.Fatalf("NewColumnStats: %v", err)
	}
	for _, r := range rows {
		f, _ := r.GetField(2)
		v, _ := f.Int()
		if err := stats.AddValue(v); err != nil {
			log.Fatalf("AddValue: %v", err)
		}
	}
	fmt.Print(stats.String())
	fmt.Printf("   estimated rows with salary >= 60000: %d\n", stats.EstimateCardinality(engine.GE, 60000))

	fmt.Println("\n9. Closing the database...")
	if err := db.Close(); err != nil {
		log.Fatalf("Close: %v", err)
	}

	fmt.Println("\n=== demo complete ===")
}

func printRows(f storage.DbFile) {
	it := f.Iterator()
	for it.Next() {
		fmt.Printf("   %s\n", it.Tuple())
	}
}
