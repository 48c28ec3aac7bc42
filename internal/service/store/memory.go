package store

import (
	"errors"
	"sync"

	"github.com/ldilba/faktura-statistik/internal/model"
)

// ErrNoDataset 尚未导入任何数据
var ErrNoDataset = errors.New("no dataset loaded")

// MemoryStore 内存数据存储
// 只保存一个数据集：新上传整体替换旧数据（last-writer-wins），
// 导入失败不触碰已有数据集
type MemoryStore struct {
	mu      sync.RWMutex
	dataset *model.Dataset
	target  float64 // 年度目标 (PT)，可在运行时覆盖
}

// NewMemoryStore 创建内存存储
func NewMemoryStore(annualTargetPT float64) *MemoryStore {
	return &MemoryStore{
		target: annualTargetPT,
	}
}

// Replace 用新数据集整体替换当前数据集
func (s *MemoryStore) Replace(dataset *model.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = dataset
}

// Dataset 获取当前数据集
// 查询期间数据集只读，计算路径拿到引用后无需再加锁
func (s *MemoryStore) Dataset() (*model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, ErrNoDataset
	}
	return s.dataset, nil
}

// HasDataset 是否已导入数据
func (s *MemoryStore) HasDataset() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset != nil
}

// AnnualTarget 获取年度目标 (PT)
func (s *MemoryStore) AnnualTarget() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

// SetAnnualTarget 覆盖年度目标 (PT)
func (s *MemoryStore) SetAnnualTarget(target float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = target
}
