package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

// RedisErrorsTestSuite drives RedisStorage against a scripted client to
// cover failures miniredis cannot produce on demand.
type RedisErrorsTestSuite struct {
	suite.Suite
	client *redis.Client
	mock   redismock.ClientMock
	store  *RedisStorage
	ctx    context.Context
}

func (s *RedisErrorsTestSuite) SetupTest() {
	s.client, s.mock = redismock.NewClientMock()
	s.store = NewRedisStorageWithClient(s.client, Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.ctx = context.Background()
}

func (s *RedisErrorsTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisErrorsTestSuite(t *testing.T) {
	suite.Run(t, new(RedisErrorsTestSuite))
}

func (s *RedisErrorsTestSuite) TestPing() {
	s.mock.ExpectPing().SetErr(errors.New("connection refused"))

	err := s.store.Ping(s.ctx)
	s.Require().Error(err)
	s.Contains(err.Error(), "redis ping failed")
}

func (s *RedisErrorsTestSuite) TestLoadCharacter() {
	id := uuid.New()

	// Missing
	s.mock.ExpectGet(characterKey(id)).RedisNil()
	spec, err := s.store.LoadCharacter(s.ctx, id)
	s.NoError(err)
	s.Nil(spec)

	// Dependency error
	s.mock.ExpectGet(characterKey(id)).SetErr(errors.New("redis error"))
	_, err = s.store.LoadCharacter(s.ctx, id)
	s.Error(err)

	// Corrupt payload
	s.mock.ExpectGet(characterKey(id)).SetVal("{not json")
	_, err = s.store.LoadCharacter(s.ctx, id)
	s.Error(err)
}

func (s *RedisErrorsTestSuite) TestListCharacters() {
	s.mock.ExpectSMembers(characterIndexKey).SetErr(errors.New("redis error"))
	_, err := s.store.ListCharacters(s.ctx)
	s.Error(err)

	s.mock.ExpectSMembers(characterIndexKey).SetVal([]string{"not-a-uuid"})
	specs, err := s.store.ListCharacters(s.ctx)
	s.NoError(err)
	s.Empty(specs)
}

func (s *RedisErrorsTestSuite) TestListRolls() {
	id := uuid.New()
	data, err := json.Marshal(testResult(id, 7))
	s.Require().NoError(err)

	s.mock.ExpectLRange(rollsKey(id), -2, -1).SetVal([]string{"garbage", string(data)})
	results, err := s.store.ListRolls(s.ctx, id, 2)
	s.Require().NoError(err)
	s.Require().Len(results, 1, "unreadable entries are skipped")
	s.Equal(7, results[0].Outcome.Roll)

	s.mock.ExpectLRange(rollsKey(id), 0, -1).SetErr(errors.New("redis error"))
	_, err = s.store.ListRolls(s.ctx, id, 0)
	s.Error(err)
}

func (s *RedisErrorsTestSuite) TestClearRolls() {
	id := uuid.New()

	s.mock.ExpectDel(rollsKey(id)).SetVal(1)
	s.NoError(s.store.ClearRolls(s.ctx, id))

	s.mock.ExpectDel(rollsKey(id)).SetErr(errors.New("redis error"))
	s.Error(s.store.ClearRolls(s.ctx, id))
}
