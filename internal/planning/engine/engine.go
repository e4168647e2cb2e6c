package engine

// Plan 执行一次完整的计划运算：BOM展开 → 时间分桶净需求 → 供应商选择
// 与起订量取整 → 按供应商聚合。输入快照在运行开始时一次性采集，
// 同一快照下结果确定。致命错误只有输入不合法一种，数据缺口全部降级为警告
func Plan(input PlanInput) (*PlanResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	gross, warnings := Explode(input.Catalog, input.OrderLines)

	net := Net(gross, input.Stock, input.Receipts)

	sized, selectWarnings := SelectAndSize(input.Catalog, input.Today, net)
	warnings = append(warnings, selectWarnings...)

	suggestions := Aggregate(input.Catalog, sized)

	return &PlanResult{
		Suggestions: suggestions,
		Warnings:    warnings,
		Gross:       gross,
		Net:         net,
	}, nil
}

func validate(input PlanInput) error {
	if len(input.OrderLines) == 0 {
		return &InvalidRunParametersError{Reason: "order set is empty"}
	}
	if input.EndDate.Before(input.StartDate) {
		return &InvalidRunParametersError{Reason: "end date is before start date"}
	}
	return nil
}
