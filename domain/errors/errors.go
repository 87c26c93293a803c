package errors

import "errors"

// ================= 业务领域错误定义 =================
// 所有业务逻辑相关的错误统一在此定义，避免跨包重复定义

// ErrUserNotFound 用户不存在错误
// 当读取或修改一个未注册用户的数据时返回此错误
var ErrUserNotFound = errors.New("user not found in database")

// ErrUserExists 用户已存在错误
// 仅由 repository.Create 返回；注册流程会把它吸收为幂等成功
var ErrUserExists = errors.New("user with this id already exists")

// ErrFavoriteExists 收藏重复错误
// 同一规范化代码在一个用户的收藏列表中最多出现一次
var ErrFavoriteExists = errors.New("favorite already exists for this user")

// ErrFavoriteNotFound 收藏不存在错误
// 删除操作没有匹配到任何条目时返回此错误
var ErrFavoriteNotFound = errors.New("favorite not found for this user")

// ErrOptimisticLock 乐观锁冲突错误
// 当数据库中的版本与期望版本不匹配时返回此错误
var ErrOptimisticLock = errors.New("optimistic lock error: version mismatch, please refresh and retry")
