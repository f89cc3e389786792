package form

// LoginCredentials 登录表单取值
type LoginCredentials struct {
	Email    string
	Password string
}

// Get 按字段名取值
func (c LoginCredentials) Get(name FieldName) string {
	switch name {
	case FieldEmail:
		return c.Email
	case FieldPassword:
		return c.Password
	}
	return ""
}

// Set 按字段名赋值，字段不属于登录表单时返回 false
func (c *LoginCredentials) Set(name FieldName, value string) bool {
	switch name {
	case FieldEmail:
		c.Email = value
	case FieldPassword:
		c.Password = value
	default:
		return false
	}
	return true
}

// RegistrationDraft 注册表单取值
type RegistrationDraft struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// Get 按字段名取值
func (d RegistrationDraft) Get(name FieldName) string {
	switch name {
	case FieldFullName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldPassword:
		return d.Password
	case FieldConfirmPassword:
		return d.ConfirmPassword
	}
	return ""
}

// Set 按字段名赋值，字段不属于注册表单时返回 false
func (d *RegistrationDraft) Set(name FieldName, value string) bool {
	switch name {
	case FieldFullName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldPassword:
		d.Password = value
	case FieldConfirmPassword:
		d.ConfirmPassword = value
	default:
		return false
	}
	return true
}

// FieldErrors 字段 -> 提示文案，只包含校验失败的字段
type FieldErrors map[FieldName]string

// Clone 深拷贝
func (e FieldErrors) Clone() FieldErrors {
	if e == nil {
		return nil
	}
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Names 返回失败字段名，顺序与 defs 一致
func (e FieldErrors) Names(defs []FieldDef) []string {
	names := make([]string, 0, len(e))
	for _, d := range defs {
		if _, ok := e[d.Name]; ok {
			names = append(names, string(d.Name))
		}
	}
	return names
}
