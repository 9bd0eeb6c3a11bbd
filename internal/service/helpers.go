package service

import (
	"math"

	"gorm.io/datatypes"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
)

const maxPageSize = 100

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampPageSize(size int) int {
	if size <= 0 {
		return 20
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

func paginationMeta(page, pageSize int, total int64) dto.PaginationMeta {
	meta := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		meta.TotalPages = 1
	}
	return meta
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if len(metadata) == 0 {
		return nil
	}
	result := make(datatypes.JSONMap, len(metadata))
	for key, value := range metadata {
		switch v := value.(type) {
		case string, bool, float64, float32, int, int64, uint, uint64, nil:
			result[key] = v
		default:
			continue
		}
	}
	return result
}
