package output

import (
	"context"
	"fmt"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/hsidd1/SDI-40-Simulation/entity"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// document MongoDB中每名驾驶员一条文档
type document struct {
	RunID         string `bson:"run_id"`
	Replication   int32  `bson:"replication"`
	Seed          uint64 `bson:"seed"`
	entity.Record `bson:",inline"`
}

// MongoSink 将完成与事故车辆的记录写入MongoDB
type MongoSink struct {
	path config.OutputPath
}

func NewMongoSink(path config.OutputPath) *MongoSink {
	return &MongoSink{path: path}
}

func (s *MongoSink) Name() string {
	return "mongo"
}

// Write 写入一次运行的全部记录
// 说明：事故车辆同样写入，通过crashed与outcome字段区分；无序写入，单条失败不影响其余文档
func (s *MongoSink) Write(ctx context.Context, res *Result) error {
	docs := documents(res)
	if len(docs) == 0 {
		return nil
	}
	client := mongoutil.NewClient(s.path.URI)
	defer client.Disconnect(context.Background())
	coll := client.Database(s.path.GetDb()).Collection(s.path.GetColl())
	if _, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert into %s.%s: %w", s.path.GetDb(), s.path.GetColl(), err)
	}
	log.Infof("inserted %d records into %s.%s", len(docs), s.path.GetDb(), s.path.GetColl())
	return nil
}

func documents(res *Result) []any {
	return lo.Map(MergeByFinish(res.Completed, res.Crashed), func(r entity.Record, _ int) any {
		return document{
			RunID:       res.RunID,
			Replication: res.Replication,
			Seed:        res.Seed,
			Record:      r,
		}
	})
}
