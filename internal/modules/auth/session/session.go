package session

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"

	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/xerrors"
)

// Artifacts 登录成功后保存的凭据
type Artifacts struct {
	UserID string
	Token  string
}

// Valid 两个字段都非空
func (a Artifacts) Valid() bool {
	return a.UserID != "" && a.Token != ""
}

// Reader 会话只读访问接口，注入给仪表盘等协作方
type Reader interface {
	Load(ctx context.Context) (Artifacts, error)
}

// Writer 会话写入器，只由认证流程持有
type Writer struct {
	storage Storage
	logger  log.Logger
}

// NewWriter 创建写入器
func NewWriter(storage Storage, logger log.Logger) *Writer {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Writer{storage: storage, logger: logger.With("component", "session_writer")}
}

// Save 写入 user_id 与 token；token 写失败时回滚 user_id，不留下半个会话
func (w *Writer) Save(ctx context.Context, a Artifacts) error {
	if !a.Valid() {
		return xerrors.NewStorageError("save", errors.New("incomplete session artifacts"))
	}
	if err := w.storage.SetItem(ctx, KeyUserID, a.UserID); err != nil {
		return xerrors.NewStorageError("save", err)
	}
	if err := w.storage.SetItem(ctx, KeyToken, a.Token); err != nil {
		if rbErr := w.storage.RemoveItem(ctx, KeyUserID); rbErr != nil {
			w.logger.WarnContext(ctx, "回滚 user_id 失败", log.Err(rbErr))
		}
		return xerrors.NewStorageError("save", err)
	}
	w.logger.InfoContext(ctx, "会话已保存",
		log.String("user_id", a.UserID),
		log.String("token_hash", hashToken(a.Token)))
	return nil
}

// Clear 删除已保存的会话
func (w *Writer) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyToken, KeyUserID} {
		if err := w.storage.RemoveItem(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return xerrors.NewStorageError("clear", errors.Join(errs...))
	}
	return nil
}

// StorageReader 基于 Storage 的只读访问
type StorageReader struct {
	storage Storage
}

// NewReader 创建只读访问器
func NewReader(storage Storage) *StorageReader {
	return &StorageReader{storage: storage}
}

// Load 读取会话，不存在或不完整时返回 CodeSessionExpired
func (r *StorageReader) Load(ctx context.Context) (Artifacts, error) {
	userID, okUser, err := r.storage.GetItem(ctx, KeyUserID)
	if err != nil {
		return Artifacts{}, xerrors.NewStorageError("load", err)
	}
	token, okToken, err := r.storage.GetItem(ctx, KeyToken)
	if err != nil {
		return Artifacts{}, xerrors.NewStorageError("load", err)
	}

	a := Artifacts{UserID: userID, Token: token}
	if !okUser || !okToken || !a.Valid() {
		return Artifacts{}, xerrors.FromCode(xerrors.CodeSessionExpired)
	}
	return a, nil
}

// hashToken 返回 token 的短哈希，仅用于日志
func hashToken(token string) string {
	h := sha1.Sum([]byte(token))
	return hex.EncodeToString(h[:])[:12]
}
