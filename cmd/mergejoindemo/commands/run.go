package commands

import (
	"context"
	"fmt"

	"github.com/kasuganosora/mergejoin/column"
	"github.com/kasuganosora/mergejoin/joinspec"
	"github.com/kasuganosora/mergejoin/mergejoin"
	"github.com/spf13/cobra"
)

var scenarioFlag int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one of the built-in join scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, ok := scenarios[scenarioFlag]
		if !ok {
			return fmt.Errorf("unknown scenario %d (valid: 1-6)", scenarioFlag)
		}
		result, names, err := scenario()
		if err != nil {
			return err
		}
		printBlock(result, names)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVarP(&scenarioFlag, "scenario", "s", 1, "scenario number to run (1-6)")
}

func vec(values ...interface{}) *column.Vector { return column.NewVector(values...) }

func block(names []string, cols ...column.Column) *column.Block {
	return column.NewBlock(names, cols)
}

type scenarioFunc func() (*column.Block, []string, error)

var scenarios = map[int]scenarioFunc{
	1: scenarioInnerAllFanOut,
	2: scenarioLeftAny,
	3: scenarioSpanningEqualRun,
	4: scenarioNullKeys,
	5: scenarioSkipNotIntersected,
	6: scenarioSizeLimit,
}

func scenarioInnerAllFanOut() (*column.Block, []string, error) {
	mj, err := mergejoin.New(joinspec.Spec{
		Kind:                joinspec.Inner,
		Strictness:          joinspec.All,
		KeysLeft:            []string{"key"},
		KeysRight:           []string{"key"},
		ColumnsAddedByJoin:  []joinspec.ColumnSpec{{Name: "rval"}},
		MaxRowsInRightBlock: 100,
	}, block([]string{"key", "rval"}, vec(), vec()))
	if err != nil {
		return nil, nil, err
	}
	ctx := context.Background()
	if _, err := mj.AddJoinedBlock(ctx, block([]string{"key", "rval"}, vec(2, 2, 3), vec("x", "y", "z"))); err != nil {
		return nil, nil, err
	}
	left := block([]string{"key", "val"}, vec(1, 2, 2), vec("a", "b", "c"))
	if err := mj.JoinBlock(ctx, left); err != nil {
		return nil, nil, err
	}
	return left, []string{"key", "val", "rval"}, nil
}

func scenarioLeftAny() (*column.Block, []string, error) {
	mj, err := mergejoin.New(joinspec.Spec{
		Kind:                joinspec.Left,
		Strictness:          joinspec.Any,
		KeysLeft:            []string{"key"},
		KeysRight:           []string{"key"},
		ColumnsAddedByJoin:  []joinspec.ColumnSpec{{Name: "rval"}},
		MaxRowsInRightBlock: 100,
	}, block([]string{"key", "rval"}, vec(), vec()))
	if err != nil {
		return nil, nil, err
	}
	ctx := context.Background()
	if _, err := mj.AddJoinedBlock(ctx, block([]string{"key", "rval"}, vec(2, 2), vec("x", "y"))); err != nil {
		return nil, nil, err
	}
	left := block([]string{"key", "val"}, vec(1, 2, 3), vec("a", "b", "c"))
	if err := mj.JoinBlock(ctx, left); err != nil {
		return nil, nil, err
	}
	return left, []string{"key", "val", "rval"}, nil
}

func scenarioSpanningEqualRun() (*column.Block, []string, error) {
	mj, err := mergejoin.New(joinspec.Spec{
		Kind:                joinspec.Inner,
		Strictness:          joinspec.All,
		KeysLeft:            []string{"key"},
		KeysRight:           []string{"key"},
		ColumnsAddedByJoin:  []joinspec.ColumnSpec{{Name: "rval"}},
		MaxRowsInRightBlock: 2,
	}, block([]string{"key", "rval"}, vec(), vec()))
	if err != nil {
		return nil, nil, err
	}
	ctx := context.Background()
	if _, err := mj.AddJoinedBlock(ctx, block([]string{"key", "rval"}, vec(5, 5), vec("x", "y"))); err != nil {
		return nil, nil, err
	}
	if _, err := mj.AddJoinedBlock(ctx, block([]string{"key", "rval"}, vec(5, 6), vec("z", "w"))); err != nil {
		return nil, nil, err
	}
	left := block([]string{"key", "val"}, vec(5, 5, 5), vec("a", "b", "c"))
	if err := mj.JoinBlock(ctx, left); err != nil {
		return nil, nil, err
	}
	return left, []string{"key", "val", "rval"}, nil
}

func scenarioNullKeys() (*column.Block, []string, error) {
	mj, err := mergejoin.New(joinspec.Spec{
		Kind:                joinspec.Left,
		Strictness:          joinspec.All,
		KeysLeft:            []string{"key"},
		KeysRight:           []string{"key"},
		ColumnsAddedByJoin:  []joinspec.ColumnSpec{{Name: "rval"}},
		MaxRowsInRightBlock: 100,
	}, block([]string{"key", "rval"}, vec(), vec()))
	if err != nil {
		return nil, nil, err
	}
	ctx := context.Background()
	right := column.NewBlock([]string{"key", "rval"}, []column.Column{
		column.NewNullableWithMask(vec(nil, 1), []bool{true, false}),
		vec("x", "y"),
	})
	if _, err := mj.AddJoinedBlock(ctx, right); err != nil {
		return nil, nil, err
	}
	left := column.NewBlock([]string{"key", "val"}, []column.Column{
		column.NewNullableWithMask(vec(nil, 1), []bool{true, false}),
		vec("a", "b"),
	})
	if err := mj.JoinBlock(ctx, left); err != nil {
		return nil, nil, err
	}
	return left, []string{"key", "val", "rval"}, nil
}

func scenarioSkipNotIntersected() (*column.Block, []string, error) {
	mj, err := mergejoin.New(joinspec.Spec{
		Kind:                joinspec.Inner,
		Strictness:          joinspec.All,
		KeysLeft:            []string{"key"},
		KeysRight:           []string{"key"},
		ColumnsAddedByJoin:  []joinspec.ColumnSpec{{Name: "rval"}},
		MaxRowsInRightBlock: 2,
	}, block([]string{"key", "rval"}, vec(), vec()))
	if err != nil {
		return nil, nil, err
	}
	ctx := context.Background()
	for _, r := range [][2]int{{0, 50}, {60, 99}, {150, 180}, {300, 400}} {
		rb := block([]string{"key", "rval"}, vec(r[0], r[1]), vec("lo", "hi"))
		if _, err := mj.AddJoinedBlock(ctx, rb); err != nil {
			return nil, nil, err
		}
	}
	left := block([]string{"key", "val"}, vec(100, 150, 200), vec("a", "b", "c"))
	if err := mj.JoinBlock(ctx, left); err != nil {
		return nil, nil, err
	}
	return left, []string{"key", "val", "rval"}, nil
}

func scenarioSizeLimit() (*column.Block, []string, error) {
	mj, err := mergejoin.New(joinspec.Spec{
		Kind:                joinspec.Inner,
		Strictness:          joinspec.All,
		KeysLeft:            []string{"key"},
		KeysRight:           []string{"key"},
		ColumnsAddedByJoin:  []joinspec.ColumnSpec{{Name: "rval"}},
		MaxRowsInRightBlock: 100,
		SizeLimits:          joinspec.SizeLimits{MaxRows: 10, OverflowMode: joinspec.Break},
	}, block([]string{"key", "rval"}, vec(), vec()))
	if err != nil {
		return nil, nil, err
	}
	ctx := context.Background()
	keys := make([]interface{}, 11)
	vals := make([]interface{}, 11)
	for i := range keys {
		keys[i] = i
		vals[i] = "v"
	}
	if _, err := mj.AddJoinedBlock(ctx, block([]string{"key", "rval"}, vec(keys...), vec(vals...))); err != nil {
		return nil, nil, err
	}
	left := block([]string{"key", "val"}, vec(1, 2, 3), vec("a", "b", "c"))
	if err := mj.JoinBlock(ctx, left); err != nil {
		return nil, nil, err
	}
	return left, []string{"key", "val", "rval"}, nil
}

func printBlock(b *column.Block, names []string) {
	cols := make([]column.Column, len(names))
	for i, n := range names {
		c, _, _ := b.ColumnByName(n)
		cols[i] = c
	}
	for row := 0; row < b.Rows(); row++ {
		values := make([]interface{}, len(cols))
		for i, c := range cols {
			if c.IsNullAt(row) {
				values[i] = "NULL"
			} else {
				values[i] = c.ValueAt(row)
			}
		}
		fmt.Println(values...)
	}
}
