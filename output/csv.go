package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
)

// Header CSV表头，依次为序号、是否人类驾驶、生成时刻、总耗时、驶入方向、驶出方向、是否事故
var Header = []string{"Name", "Type", "Start Time", "Elapsed Time", "Start Direction", "End Direction", "Crashed"}

// CSVSink 将终态记录写入CSV文件
// 说明：默认只导出完成通行的车辆并对丢弃的事故车辆给出警告；
// IncludeCrashed为true时按离开顺序导出两类车辆
type CSVSink struct {
	file           string
	includeCrashed bool
	perRun         bool // 多次重复实验时每次写入单独的文件
}

// NewCSVSink 创建CSV输出
// 参数：c-CSV配置，replications-重复实验次数
func NewCSVSink(c config.CSVOutput, replications int32) *CSVSink {
	return &CSVSink{
		file:           c.File,
		includeCrashed: c.IncludeCrashed,
		perRun:         replications > 1,
	}
}

func (s *CSVSink) Name() string {
	return "csv"
}

// Path 某次运行对应的文件路径
// 说明：多次重复实验时在扩展名前加上"-序号"，例如out.csv→out-2.csv
func (s *CSVSink) Path(res *Result) string {
	if !s.perRun {
		return s.file
	}
	ext := filepath.Ext(s.file)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(s.file, ext), res.Replication, ext)
}

// Write 写入CSV文件
func (s *CSVSink) Write(ctx context.Context, res *Result) (err error) {
	path := s.Path(res)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	records := res.Completed
	if s.includeCrashed {
		records = MergeByFinish(res.Completed, res.Crashed)
	} else if len(res.Crashed) > 0 {
		log.Warnf("%d crashed drivers are not exported to %s (set output.csv.include_crashed to keep them)", len(res.Crashed), path)
	}
	if err := WriteCSV(f, records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Infof("wrote %d records to %s", len(records), path)
	return nil
}

// WriteCSV 将记录按表头格式写入w
func WriteCSV(w io.Writer, records []entity.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(int64(r.ID), 10),
			strconv.FormatBool(r.Human),
			strconv.FormatFloat(r.StartTime, 'f', -1, 64),
			strconv.FormatFloat(r.ElapsedTime, 'f', -1, 64),
			r.From.String(),
			r.To.String(),
			strconv.FormatBool(r.Crashed),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MergeByFinish 将两组各自按离开顺序排列的记录合并为整体离开顺序
func MergeByFinish(a, b []entity.Record) []entity.Record {
	merged := make([]entity.Record, 0, len(a)+len(b))
	i, k := 0, 0
	for i < len(a) && k < len(b) {
		if a[i].FinishTime() <= b[k].FinishTime() {
			merged = append(merged, a[i])
			i++
		} else {
			merged = append(merged, b[k])
			k++
		}
	}
	merged = append(merged, a[i:]...)
	return append(merged, b[k:]...)
}
