package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/phone"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

const checkinDateLayout = "2006-01-02"

// GuestService registers guests and checks them into rooms.
type GuestService struct {
	store Store
	log   *logger.Logger
}

// NewGuestService builds the guest service.
func NewGuestService(st Store, log *logger.Logger) *GuestService {
	return &GuestService{store: st, log: log}
}

// Register creates a guest user and an active check-in for the requested
// room, flipping the room to occupied. The whole flow is one transaction.
func (s *GuestService) Register(ctx context.Context, req *model.RegisterGuestRequest) (*model.RegisterGuestResponse, error) {
	checkinDate, err := time.Parse(checkinDateLayout, req.CheckinDate)
	if err != nil {
		return nil, apierr.Validation("checkin_date must be in YYYY-MM-DD format.")
	}

	localPhone := phone.Local(req.PhoneNumber)

	var resp *model.RegisterGuestResponse
	err = s.store.InTx(ctx, func(tx Store) error {
		role, err := tx.RoleByCode(ctx, model.RoleCodeGuest)
		if err != nil {
			return err
		}
		if role == nil {
			return apierr.Internal("Guest role is not configured.", nil).
				WithCode(apierr.CodeGuestRoleMiss)
		}

		room, err := tx.RoomByNumber(ctx, nil, req.RoomNumber)
		if err != nil {
			return err
		}
		if room == nil {
			return apierr.NotFound("Room not found.").WithCode(apierr.CodeRoomNotFound)
		}
		if room.Status != model.RoomStatusAvailable {
			return apierr.BadRequest("Room is not available.").WithCode(apierr.CodeRoomOccupied)
		}

		user := &model.User{
			OrgID:       room.OrgID,
			RoleID:      role.ID,
			Name:        req.FullName,
			Email:       req.Email,
			MobilePhone: localPhone,
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}

		checkin := &model.CheckinRoom{
			OrgID:       room.OrgID,
			RoomID:      room.ID,
			GuestID:     user.ID,
			CheckinTime: checkinDate,
			Status:      model.CheckinStatusActive,
		}
		if err := tx.CreateCheckin(ctx, checkin); err != nil {
			return err
		}

		if err := tx.UpdateRoomStatus(ctx, room.ID, model.RoomStatusOccupied); err != nil {
			return err
		}

		resp = &model.RegisterGuestResponse{
			UserID:      user.ID,
			CheckinID:   checkin.ID,
			FullName:    user.Name,
			RoomNumber:  room.RoomNumber,
			CheckinDate: req.CheckinDate,
			Email:       user.Email,
			PhoneNumber: localPhone,
			Status:      model.CheckinStatusActive,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("guest registered",
		zap.String("user_id", resp.UserID.String()),
		zap.String("room_number", resp.RoomNumber))
	return resp, nil
}
