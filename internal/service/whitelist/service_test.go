package whitelist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"notifyhub/internal/model"
	"notifyhub/internal/repository"
	"notifyhub/internal/rules"
	"notifyhub/internal/service/whitelist/mocks"
	"notifyhub/pkg/mq"
)

type WhitelistServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	store     *mocks.MockRuleStore
	publisher *mocks.MockPublisher
	service   *Service
}

func (s *WhitelistServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockRuleStore(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.service = NewService(s.store, s.publisher, zap.NewNop())
}

func (s *WhitelistServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestWhitelistServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WhitelistServiceTestSuite))
}

func (s *WhitelistServiceTestSuite) TestUpsert_Created() {
	ctx := context.Background()
	input := model.WhitelistRule{Source: "gmail", Type: model.RuleSender, Value: "boss@co", IsUrgent: true}

	s.store.EXPECT().Upsert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, r *model.WhitelistRule) (bool, error) {
			s.Equal(4, r.UserID)
			s.Equal(model.SourceGmail, r.Source)
			s.Equal(model.DefaultRuleCategory, r.Category)
			r.ID = "rule-1"
			return true, nil
		},
	)
	s.publisher.EXPECT().Publish(ctx, mq.RoutingKeyWhitelistChanged,
		mq.WhitelistChangedEvent{UserID: 4, RuleID: "rule-1", Action: "created"}).Return(nil)

	rule, created, err := s.service.Upsert(ctx, 4, input)
	s.Require().NoError(err)
	s.True(created)
	s.Equal("rule-1", rule.ID)
}

func (s *WhitelistServiceTestSuite) TestUpsert_UpdatedAndPublishFailureIgnored() {
	s.store.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(false, nil)
	s.publisher.EXPECT().Publish(gomock.Any(), mq.RoutingKeyWhitelistChanged, gomock.Any()).Return(errors.New("mq down"))

	_, created, err := s.service.Upsert(context.Background(), 4,
		model.WhitelistRule{Source: model.SourceGitHub, Type: model.RuleRepository, Value: "acme/api"})
	s.NoError(err)
	s.False(created)
}

func (s *WhitelistServiceTestSuite) TestUpsert_Invalid() {
	_, _, err := s.service.Upsert(context.Background(), 4,
		model.WhitelistRule{Source: model.SourceCalendar, Type: model.RuleSender, Value: "x"})
	s.ErrorIs(err, rules.ErrInvalidRule)
}

func (s *WhitelistServiceTestSuite) TestDelete() {
	id := uuid.New()
	s.store.EXPECT().Delete(gomock.Any(), 4, id).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), mq.RoutingKeyWhitelistChanged,
		mq.WhitelistChangedEvent{UserID: 4, RuleID: id.String(), Action: "deleted"}).Return(nil)

	s.NoError(s.service.Delete(context.Background(), 4, id.String()))
}

func (s *WhitelistServiceTestSuite) TestDelete_NotFound() {
	id := uuid.New()
	s.store.EXPECT().Delete(gomock.Any(), 4, id).Return(repository.ErrNotFound)

	s.ErrorIs(s.service.Delete(context.Background(), 4, id.String()), ErrRuleNotFound)
	s.ErrorIs(s.service.Delete(context.Background(), 4, "not-a-uuid"), ErrRuleNotFound)
}

func (s *WhitelistServiceTestSuite) TestList_EmptyIsNotNil() {
	s.store.EXPECT().ListByUser(gomock.Any(), 4).Return(nil, nil)

	list, err := s.service.List(context.Background(), 4)
	s.NoError(err)
	s.NotNil(list)
	s.Empty(list)
}
