package status

func filled(label, color string) Descriptor {
	return Descriptor{Label: label, Color: color, Variant: VariantFilled}
}

func outlined(label, color string) Descriptor {
	return Descriptor{Label: label, Color: color, Variant: VariantOutlined}
}

// Labels are the ones shown in the Chinese admin UI.
var statusTable = map[Category]map[string]Descriptor{
	CategoryUser: {
		"active":    filled("正常", ColorSuccess),
		"inactive":  outlined("未激活", ColorDefault),
		"pending":   outlined("待审核", ColorWarning),
		"suspended": filled("已暂停", ColorWarning),
		"banned":    filled("已封禁", ColorError),
		"deleted":   outlined("已删除", ColorDefault),
	},
	CategoryNovel: {
		"draft":       outlined("草稿", ColorDefault),
		"pending":     outlined("待审核", ColorWarning),
		"published":   filled("已发布", ColorSuccess),
		"serializing": filled("连载中", ColorPrimary),
		"completed":   filled("已完结", ColorSuccess),
		"hiatus":      outlined("暂停更新", ColorWarning),
		"rejected":    filled("已驳回", ColorError),
		"banned":      filled("已封禁", ColorError),
		"deleted":     outlined("已删除", ColorDefault),
	},
	CategoryChapter: {
		"draft":     outlined("草稿", ColorDefault),
		"scheduled": outlined("定时发布", ColorInfo),
		"pending":   outlined("待审核", ColorWarning),
		"published": filled("已发布", ColorSuccess),
		"rejected":  filled("已驳回", ColorError),
		"hidden":    outlined("已隐藏", ColorSecondary),
		"deleted":   outlined("已删除", ColorDefault),
	},
	CategoryComment: {
		"visible":  filled("可见", ColorSuccess),
		"approved": filled("已通过", ColorSuccess),
		"pending":  outlined("待审核", ColorWarning),
		"hidden":   outlined("已隐藏", ColorSecondary),
		"flagged":  filled("被举报", ColorError),
		"deleted":  outlined("已删除", ColorDefault),
	},
	CategoryReview: {
		"pending":  outlined("待审核", ColorWarning),
		"approved": filled("已通过", ColorSuccess),
		"rejected": filled("已驳回", ColorError),
		"flagged":  filled("被举报", ColorError),
	},
	CategoryReport: {
		"pending":       outlined("待处理", ColorWarning),
		"investigating": filled("处理中", ColorInfo),
		"resolved":      filled("已解决", ColorSuccess),
		"dismissed":     outlined("已驳回", ColorDefault),
		"escalated":     filled("已升级", ColorError),
	},
	CategoryTransaction: {
		"pending":    outlined("待支付", ColorWarning),
		"processing": filled("处理中", ColorInfo),
		"completed":  filled("已完成", ColorSuccess),
		"failed":     filled("失败", ColorError),
		"refunded":   outlined("已退款", ColorSecondary),
		"cancelled":  outlined("已取消", ColorDefault),
	},
	CategorySubscription: {
		"active":    filled("生效中", ColorSuccess),
		"trial":     outlined("试用中", ColorInfo),
		"paused":    outlined("已暂停", ColorWarning),
		"expired":   outlined("已过期", ColorDefault),
		"cancelled": outlined("已取消", ColorDefault),
	},
	CategorySystem: {
		"online":      filled("运行中", ColorSuccess),
		"degraded":    filled("性能下降", ColorWarning),
		"maintenance": outlined("维护中", ColorInfo),
		"offline":     filled("离线", ColorError),
	},
	CategoryYuan: {
		"recharge": filled("充值", ColorSuccess),
		"consume":  outlined("消费", ColorPrimary),
		"reward":   filled("打赏", ColorSecondary),
		"refund":   outlined("退款", ColorWarning),
		"frozen":   filled("冻结", ColorError),
	},
	CategoryPoints: {
		"earned":  filled("获得", ColorSuccess),
		"spent":   outlined("使用", ColorPrimary),
		"expired": outlined("过期", ColorDefault),
		"bonus":   filled("奖励", ColorSecondary),
		"revoked": filled("扣除", ColorError),
	},
}
