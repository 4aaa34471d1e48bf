package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fakeout-io/fakeout/internal/dependencies/mocks"
	"github.com/fakeout-io/fakeout/internal/model"
	"github.com/fakeout-io/fakeout/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.registry = New(s.clock, s.random, testutil.NopLogger())
}

func (s *RegistrySuite) TestCreatePublicRoom() {
	room, err := s.registry.CreateRoom(model.RoomKindPublic, 5)
	s.Require().NoError(err)

	s.NotEmpty(room.ID)
	s.Equal(model.RoomKindPublic, room.Kind)
	s.Equal(model.PhaseLobby, room.Phase)
	s.Equal(5, room.TotalQuestions)
	s.Empty(room.Code)
	s.Equal(s.clock.Now(), room.CreatedAt)
}

func (s *RegistrySuite) TestCreatePrivateRoomHasSixDigitCode() {
	s.random.QueueIntn(123456)

	room, err := s.registry.CreateRoom(model.RoomKindPrivate, 3)
	s.Require().NoError(err)

	s.Equal("223456", room.Code)
	s.Len(room.Code, 6)
}

func (s *RegistrySuite) TestCreatePrivateRoomCodeLowerBound() {
	// Intn returning 0 maps to the smallest 6-digit code
	s.random.QueueIntn(0)

	room, err := s.registry.CreateRoom(model.RoomKindPrivate, 3)
	s.Require().NoError(err)

	s.Equal("100000", room.Code)
}

func (s *RegistrySuite) TestCreatePrivateRoomRegeneratesCollidingCode() {
	s.random.QueueIntn(42, 42, 99)

	first, err := s.registry.CreateRoom(model.RoomKindPrivate, 3)
	s.Require().NoError(err)
	second, err := s.registry.CreateRoom(model.RoomKindPrivate, 3)
	s.Require().NoError(err)

	s.Equal("100042", first.Code)
	s.Equal("100099", second.Code)
}

func (s *RegistrySuite) TestCreatePrivateRoomFailsWhenCodesKeepColliding() {
	// An exhausted mock queue returns 0 forever, so every retry draws
	// the code the first room already holds
	s.random.QueueIntn(0)

	first, err := s.registry.CreateRoom(model.RoomKindPrivate, 3)
	s.Require().NoError(err)
	s.Equal("100000", first.Code)

	_, err = s.registry.CreateRoom(model.RoomKindPrivate, 3)
	s.ErrorIs(err, model.ErrJoinCodeExhausted)
	s.Equal(1, s.registry.RoomCount())
}

func (s *RegistrySuite) TestCreateRoomRejectsInvalidKind() {
	_, err := s.registry.CreateRoom(model.RoomKind("ranked"), 5)
	s.ErrorIs(err, model.ErrInvalidRoomKind)
}

func (s *RegistrySuite) TestCreateRoomRejectsZeroQuestions() {
	_, err := s.registry.CreateRoom(model.RoomKindPublic, 0)
	s.ErrorIs(err, model.ErrInvalidQuestionCount)
}

func (s *RegistrySuite) TestGetRoom() {
	room, _ := s.registry.CreateRoom(model.RoomKindPublic, 5)

	retrieved, err := s.registry.GetRoom(room.ID)
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
}

func (s *RegistrySuite) TestGetRoomNotFound() {
	_, err := s.registry.GetRoom(model.RoomID("nope"))
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RegistrySuite) TestGetRoomByCode() {
	s.random.QueueIntn(777)
	room, _ := s.registry.CreateRoom(model.RoomKindPrivate, 5)

	retrieved, ok := s.registry.GetRoomByCode("100777")
	s.Require().True(ok)
	s.Equal(room.ID, retrieved.ID)
}

func (s *RegistrySuite) TestGetRoomByCodeMiss() {
	_, ok := s.registry.GetRoomByCode("999999")
	s.False(ok)
}

func (s *RegistrySuite) TestRemoveRoomReleasesCode() {
	s.random.QueueIntn(500, 500)
	room, _ := s.registry.CreateRoom(model.RoomKindPrivate, 5)

	s.registry.RemoveRoom(room.ID)

	_, err := s.registry.GetRoom(room.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)

	// The freed code can be claimed by a new room
	next, err := s.registry.CreateRoom(model.RoomKindPrivate, 5)
	s.Require().NoError(err)
	s.Equal("100500", next.Code)
}

func (s *RegistrySuite) TestRoomCount() {
	s.Equal(0, s.registry.RoomCount())
	_, _ = s.registry.CreateRoom(model.RoomKindPublic, 5)
	_, _ = s.registry.CreateRoom(model.RoomKindPublic, 5)
	s.Equal(2, s.registry.RoomCount())
}

func (s *RegistrySuite) TestReapRemovesEndedRooms() {
	ended, _ := s.registry.CreateRoom(model.RoomKindPublic, 5)
	live, _ := s.registry.CreateRoom(model.RoomKindPublic, 5)

	ended.Lock()
	ended.Phase = model.PhaseGameEnded
	ended.Unlock()

	removed := s.registry.Reap(time.Hour)

	s.Equal([]model.RoomID{ended.ID}, removed)
	_, err := s.registry.GetRoom(live.ID)
	s.NoError(err)
}

func (s *RegistrySuite) TestReapRemovesIdleRooms() {
	idle, _ := s.registry.CreateRoom(model.RoomKindPublic, 5)

	s.clock.Advance(3 * time.Hour)
	removed := s.registry.Reap(2 * time.Hour)

	s.Equal([]model.RoomID{idle.ID}, removed)
	s.Equal(0, s.registry.RoomCount())
}

func (s *RegistrySuite) TestReapKeepsRecentlyActiveRooms() {
	_, _ = s.registry.CreateRoom(model.RoomKindPublic, 5)

	s.clock.Advance(time.Hour)
	removed := s.registry.Reap(2 * time.Hour)

	s.Empty(removed)
	s.Equal(1, s.registry.RoomCount())
}
